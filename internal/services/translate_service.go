package services

import (
	"context"

	"github.com/edusarathi/content-service/internal/ai"
	"github.com/edusarathi/content-service/internal/models"
	"github.com/edusarathi/content-service/internal/validator"
)

// supportedLanguages are the translation targets the service advertises.
var supportedLanguages = []Language{
	{Code: "en", Name: "English"},
	{Code: "hi", Name: "Hindi"},
	{Code: "bn", Name: "Bengali"},
	{Code: "ta", Name: "Tamil"},
	{Code: "te", Name: "Telugu"},
	{Code: "mr", Name: "Marathi"},
	{Code: "gu", Name: "Gujarati"},
	{Code: "kn", Name: "Kannada"},
	{Code: "ml", Name: "Malayalam"},
	{Code: "pa", Name: "Punjabi"},
	{Code: "ur", Name: "Urdu"},
}

type translateService struct {
	chain     *ai.Chain
	validator *validator.Validator
}

func NewTranslateService(chain *ai.Chain, v *validator.Validator) TranslateService {
	return &translateService{
		chain:     chain,
		validator: v,
	}
}

func (s *translateService) Translate(ctx context.Context, req models.TranslateRequest) (*models.TranslateResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.SourceLanguage == "" {
		req.SourceLanguage = "en"
	}

	return s.chain.Translate(ctx, req)
}

func (s *translateService) Languages() []Language {
	out := make([]Language, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}
