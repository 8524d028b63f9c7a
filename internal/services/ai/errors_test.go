package ai

import (
	"errors"
	"testing"
	"time"
)

func TestExtractAPIError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		err           error
		wantNil       bool
		wantPermanent bool
		wantCode      string
	}{
		{
			name:    "nil error",
			err:     nil,
			wantNil: true,
		},
		{
			name:    "unrelated error",
			err:     errors.New("connection refused"),
			wantNil: true,
		},
		{
			name:     "plain 429",
			err:      errors.New("POST /chat/completions: 429 Too Many Requests"),
			wantCode: "",
		},
		{
			name:          "quota exhaustion with JSON body",
			err:           errors.New(`429 {"message":"You exceeded your quota","type":"insufficient_quota","code":"insufficient_quota"}`),
			wantPermanent: true,
			wantCode:      "insufficient_quota",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			apiErr := ExtractAPIError(tt.err)
			if tt.wantNil {
				if apiErr != nil {
					t.Fatalf("Expected nil, got %+v", apiErr)
				}
				return
			}
			if apiErr == nil {
				t.Fatal("Expected an APIError")
			}
			if apiErr.StatusCode != 429 {
				t.Errorf("Expected status 429, got %d", apiErr.StatusCode)
			}
			if apiErr.IsPermanent != tt.wantPermanent {
				t.Errorf("Expected IsPermanent %v, got %v", tt.wantPermanent, apiErr.IsPermanent)
			}
			if apiErr.Code != tt.wantCode {
				t.Errorf("Expected code %q, got %q", tt.wantCode, apiErr.Code)
			}
			if apiErr.RetryAfter == nil {
				t.Fatal("Expected RetryAfter to be set")
			}
			if tt.wantPermanent && *apiErr.RetryAfter != time.Hour {
				t.Errorf("Expected 1h retry for quota errors, got %v", *apiErr.RetryAfter)
			}
		})
	}
}

func TestIsRateLimitError(t *testing.T) {
	t.Parallel()

	if IsRateLimitError(nil) {
		t.Error("nil should not be a rate limit error")
	}
	if !IsRateLimitError(errors.New("rate limit exceeded")) {
		t.Error("Expected message match to be a rate limit error")
	}
	if !IsRateLimitError(&APIError{StatusCode: 429}) {
		t.Error("Expected APIError 429 to be a rate limit error")
	}
	if IsRateLimitError(&APIError{StatusCode: 429, IsPermanent: true}) {
		t.Error("Permanent quota errors are not retryable rate limits")
	}
}

func TestSanitizeAPIKey(t *testing.T) {
	t.Parallel()

	if got := SanitizeAPIKey(""); got != "" {
		t.Errorf("Expected empty, got %q", got)
	}
	if got := SanitizeAPIKey("short"); got != RedactedValue {
		t.Errorf("Expected full redaction for short key, got %q", got)
	}
	got := SanitizeAPIKey("sk-abcdefghijklmnop")
	if got != "sk-a"+RedactedValue+"mnop" {
		t.Errorf("Unexpected redaction: %q", got)
	}
}
