package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/edusarathi/content-service/internal/ai"
	"github.com/edusarathi/content-service/internal/services"
	"github.com/edusarathi/content-service/internal/uploads"
	"github.com/edusarathi/content-service/internal/validator"
)

func TestHandleServiceErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", validator.ValidationErrors{{Field: "subject", Message: "is required"}}, http.StatusBadRequest},
		{"permission", services.NewPermissionError("user-1", 1, "quiz", "update", "not the creator"), http.StatusForbidden},
		{"business rule", services.NewBusinessRuleError("score_exceeds_max", "score 7.0 exceeds maximum 5"), http.StatusUnprocessableEntity},
		{"upload", &uploads.UploadError{Filename: "scan.exe", Reason: "file type not allowed"}, http.StatusBadRequest},
		{"quiz not found", services.ErrQuizNotFound, http.StatusNotFound},
		{"sheet not found", services.ErrSheetNotFound, http.StatusNotFound},
		{"attempt limit", services.ErrAttemptLimitReached, http.StatusBadRequest},
		{"already submitted", services.ErrAttemptAlreadySubmitted, http.StatusConflict},
		{"not submitted", services.ErrSheetNotSubmitted, http.StatusConflict},
		{"not gradable", services.ErrSheetNotGradable, http.StatusConflict},
		{"status change", services.ErrInvalidStatusChange, http.StatusUnprocessableEntity},
		{"tiers exhausted", ai.ErrExhausted, http.StatusServiceUnavailable},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError},
	}

	base := NewBaseHandler(testLogger(), false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			base.handleServiceError(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal response: %v", err)
			}
			if resp.Success {
				t.Error("error response marked success")
			}
			if resp.Message == "" {
				t.Error("error response has no message")
			}
		})
	}
}

func TestHandleServiceErrorHidesInternals(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, development := range []bool{true, false} {
		base := NewBaseHandler(testLogger(), development)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		base.handleServiceError(c, errors.New("pq: connection refused"))

		var resp ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		if development && resp.Error == "" {
			t.Error("development response should carry the raw error")
		}
		if !development && resp.Error != "" {
			t.Errorf("production response leaked %q", resp.Error)
		}
	}
}

func TestParseIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	base := NewBaseHandler(testLogger(), false)

	tests := []struct {
		name  string
		value string
		want  uint
	}{
		{"valid", "42", 42},
		{"zero", "0", 0},
		{"negative", "-1", 0},
		{"text", "abc", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Params = gin.Params{{Key: "id", Value: tt.value}}

			got := base.parseIDParam(c, "id")
			if got != tt.want {
				t.Errorf("parseIDParam(%q) = %d, want %d", tt.value, got, tt.want)
			}
			if tt.want == 0 && w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}
