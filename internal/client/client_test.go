package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/mkravets/formflow/internal/forms"
)

func TestGetForm(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/forms/onboarding" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(forms.Form{Key: "onboarding", Title: "Onboarding"})
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "")
	form, err := c.GetForm(context.Background(), "onboarding")
	if err != nil {
		t.Fatalf("GetForm: %v", err)
	}
	if form.Key != "onboarding" {
		t.Errorf("key = %s, want onboarding", form.Key)
	}
}

func TestGetForm_RetriesServerErrors(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(forms.Form{Key: "k"})
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "")
	if _, err := c.GetForm(context.Background(), "k"); err != nil {
		t.Fatalf("GetForm after retries: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("server saw %d calls, want 3", got)
	}
}

func TestGetForm_NoRetryOnClientError(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "")
	if _, err := c.GetForm(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for 404")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("server saw %d calls, want 1 (4xx is permanent)", got)
	}
}

func TestResolveNext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/forms/onboarding/next" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req nextRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.CurrentFieldID != "f1" {
			t.Errorf("currentFieldId = %s", req.CurrentFieldID)
		}
		next := "f3"
		json.NewEncoder(w).Encode(nextResponse{
			NextFieldID:   &next,
			AppliedRuleID: "r1",
			Reason:        "RULE_MATCH",
		})
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "")
	res, err := c.ResolveNext(context.Background(), "onboarding", "f1", 15, nil)
	if err != nil {
		t.Fatalf("ResolveNext: %v", err)
	}
	if res.NextFieldID == nil || *res.NextFieldID != "f3" {
		t.Errorf("next = %v, want f3", res.NextFieldID)
	}
	if res.AppliedRuleID != "r1" {
		t.Errorf("rule = %s, want r1", res.AppliedRuleID)
	}
}

func TestRemoteResolver(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(nextResponse{Reason: "END_OF_FORM", EndOfForm: true})
	}))
	defer ts.Close()

	r := NewRemoteResolver(NewClient(ts.URL, ""), "onboarding")
	res, err := r.Resolve(context.Background(), "f9", nil, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.EndOfForm() {
		t.Errorf("resolution = %+v, want end of form", res)
	}
}

func TestSubmitResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]any{"id": "resp-9", "queued": true})
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "")
	id, err := c.SubmitResponse(context.Background(), "onboarding", map[string]any{"f1": "x"})
	if err != nil {
		t.Fatalf("SubmitResponse: %v", err)
	}
	if id != "resp-9" {
		t.Errorf("id = %s, want resp-9", id)
	}
}
