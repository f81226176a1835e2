package toolsvc_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agenticzero/flowgraph/toolsvc"
)

func TestRemoteToolNameReflectsConstructorArg(t *testing.T) {
	rt := toolsvc.NewRemoteTool("fetch_page")
	if rt.Name() != "fetch_page" {
		t.Fatalf("Name() = %q, want fetch_page", rt.Name())
	}
}

func TestRemoteToolGETReturnsStatusHeadersAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		w.Header().Set("X-Custom", "yes")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	rt := toolsvc.NewRemoteTool("fetch")
	out, err := rt.Call(context.Background(), map[string]any{"url": srv.URL})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if out["status_code"] != http.StatusOK {
		t.Fatalf("expected status 200, got %v", out["status_code"])
	}
	headers := out["headers"].(map[string]any)
	if headers["X-Custom"] != "yes" {
		t.Fatalf("expected X-Custom header to round-trip, got %+v", headers)
	}
	var body map[string]string
	if err := json.Unmarshal([]byte(out["body"].(string)), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestRemoteToolPOSTSendsBodyAndHeaders(t *testing.T) {
	var gotBody []byte
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		buf := make([]byte, r.ContentLength)
		_, _ = r.Body.Read(buf)
		gotBody = buf
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	rt := toolsvc.NewRemoteTool("submit")
	out, err := rt.Call(context.Background(), map[string]any{
		"method":  "post",
		"url":     srv.URL,
		"body":    `{"n":1}`,
		"headers": map[string]any{"Authorization": "Bearer tok"},
	})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if out["status_code"] != http.StatusCreated {
		t.Fatalf("expected 201, got %v", out["status_code"])
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("expected Authorization header to reach server, got %q", gotAuth)
	}
	if string(gotBody) != `{"n":1}` {
		t.Fatalf("expected body to reach server, got %q", gotBody)
	}
}

func TestRemoteToolRejectsMissingURL(t *testing.T) {
	rt := toolsvc.NewRemoteTool("fetch")
	if _, err := rt.Call(context.Background(), map[string]any{}); err == nil {
		t.Fatal("expected error for missing url")
	}
}

func TestRemoteToolRejectsUnsupportedMethod(t *testing.T) {
	rt := toolsvc.NewRemoteTool("fetch")
	_, err := rt.Call(context.Background(), map[string]any{"method": "DELETE", "url": "http://example.invalid"})
	if err == nil {
		t.Fatal("expected error for unsupported method")
	}
}
