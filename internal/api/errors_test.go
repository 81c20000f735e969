package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteErrorResponse_IncludesRequestID(t *testing.T) {
	_, handler, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/forms/missing", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp.Code != ErrCodeNotFound {
		t.Errorf("code = %s, want %s", errResp.Code, ErrCodeNotFound)
	}
	if errResp.Error != http.StatusText(http.StatusNotFound) {
		t.Errorf("error = %q, want %q", errResp.Error, http.StatusText(http.StatusNotFound))
	}
	if errResp.RequestID == "" {
		t.Error("request_id not set from middleware")
	}
}

func TestValidationError_Fields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/forms", nil)
	rr := httptest.NewRecorder()

	ValidationError(rr, req, "validation failed", map[string]string{"key": "key is required"})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp.Fields["key"] != "key is required" {
		t.Errorf("fields = %v, want key error", errResp.Fields)
	}
}
