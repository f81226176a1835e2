package toolsvc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// RemoteTool calls a single HTTP endpoint and reports the response back
// as a Tool result. It covers the common case of a tool that is really
// just a thin wrapper around a REST call — a webhook, a lookup service,
// a scraped page — without requiring a bespoke Tool implementation per
// endpoint.
//
// Input:
//   - method: "GET" or "POST" (default "GET")
//   - url: target URL, required
//   - headers: map[string]any of header name to string value
//   - body: request body string, sent with either method when non-empty
//
// Output:
//   - status_code: int
//   - headers: map[string]any of response headers
//   - body: response body as string
type RemoteTool struct {
	ToolName string
	client   *http.Client
}

// NewRemoteTool returns a RemoteTool identified by name, using an
// http.Client with no default timeout — callers cancel via ctx instead.
func NewRemoteTool(name string) *RemoteTool {
	return &RemoteTool{ToolName: name, client: &http.Client{}}
}

func (h *RemoteTool) Name() string { return h.ToolName }

func (h *RemoteTool) Call(ctx context.Context, input map[string]any) (map[string]any, error) {
	urlStr, ok := input["url"].(string)
	if !ok || urlStr == "" {
		return nil, fmt.Errorf("toolsvc: %s: \"url\" parameter required", h.ToolName)
	}

	method := "GET"
	if m, ok := input["method"].(string); ok && m != "" {
		method = strings.ToUpper(m)
	}
	if method != "GET" && method != "POST" {
		return nil, fmt.Errorf("toolsvc: %s: unsupported method %q", h.ToolName, method)
	}

	var body io.Reader
	if bodyStr, ok := input["body"].(string); ok && bodyStr != "" {
		body = bytes.NewBufferString(bodyStr)
	}

	req, err := http.NewRequestWithContext(ctx, method, urlStr, body)
	if err != nil {
		return nil, fmt.Errorf("toolsvc: %s: building request: %w", h.ToolName, err)
	}
	if headers, ok := input["headers"].(map[string]any); ok {
		for key, value := range headers {
			if s, ok := value.(string); ok {
				req.Header.Set(key, s)
			}
		}
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("toolsvc: %s: request failed: %w", h.ToolName, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("toolsvc: %s: reading response: %w", h.ToolName, err)
	}

	respHeaders := make(map[string]any, len(resp.Header))
	for key, values := range resp.Header {
		if len(values) == 1 {
			respHeaders[key] = values[0]
		} else {
			respHeaders[key] = values
		}
	}

	return map[string]any{
		"status_code": resp.StatusCode,
		"headers":     respHeaders,
		"body":        string(respBody),
	}, nil
}

var _ Tool = (*RemoteTool)(nil)
