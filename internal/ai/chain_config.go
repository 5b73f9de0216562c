package ai

import (
	"github.com/edusarathi/content-service/internal/config"
	"github.com/edusarathi/content-service/internal/models"
	"github.com/edusarathi/content-service/internal/utils"
)

// NewChainFromConfig builds the provider chain in fixed order: primary
// service, then the legacy endpoint, then the local template generator when
// the mock fallback is enabled.
func NewChainFromConfig(cfg config.AIConfig, logger utils.Logger) *Chain {
	var providers []Provider

	if cfg.ServiceURL != "" {
		providers = append(providers, NewHTTPProvider(models.TierPrimary, cfg.ServiceURL, cfg.ServiceTimeout))
	}
	if cfg.LegacyURL != "" {
		providers = append(providers, NewHTTPProvider(models.TierLegacy, cfg.LegacyURL, cfg.LegacyTimeout))
	}
	if cfg.MockFallback {
		providers = append(providers, NewMockProvider())
	}

	return NewChain(logger, providers...)
}
