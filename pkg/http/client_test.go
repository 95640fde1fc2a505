package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientJSONRoundTrip(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/echo" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("unexpected auth header %q", got)
		}
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["q"]})
	}))
	defer srv.Close()

	c := NewClient(time.Second).WithBaseURL(srv.URL + "/").WithBearerToken("tok")
	var out struct {
		Echo string `json:"echo"`
	}
	if err := c.PostJSON(context.Background(), "/v1/echo", map[string]string{"q": "go"}, &out); err != nil {
		t.Fatalf("PostJSON: %v", err)
	}
	if out.Echo != "go" {
		t.Fatalf("unexpected response %+v", out)
	}
}

func TestClientStatusError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"User not found"}`))
	}))
	defer srv.Close()

	err := NewClient(time.Second).GetJSON(context.Background(), srv.URL+"/users/9", nil)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusNotFound || se.Detail != "User not found" {
		t.Fatalf("unexpected error %+v", se)
	}
}

func TestErrorDetail(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		`{"detail":"boom"}`:     "boom",
		`{"message":"nope"}`:    "nope",
		`{"detail":[{"x":1}]}`:  "",
		"  plain text failure ": "plain text failure",
	}
	for raw, want := range tests {
		if got := errorDetail([]byte(raw)); got != want {
			t.Fatalf("errorDetail(%q) = %q, want %q", raw, got, want)
		}
	}
}
