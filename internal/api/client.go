package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"applierctl/pkg/logging"
)

const (
	apiSubsystem = "API"

	statusPath   = "/"
	modulePath   = "/module"
	forceRunPath = "/api/v1/forceRun"

	// maxBodySize caps how much of a response is read; module pages with long
	// run outputs stay well below it.
	maxBodySize = 8 << 20
)

// Client talks to a single terraform-applier web server.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// NewClient creates a client for the applier at serverURL. A zero timeout
// leaves requests bounded only by the caller's context.
func NewClient(serverURL string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(serverURL) == "" {
		return nil, ErrMissingServerURL
	}
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid applier server url %q: %w", serverURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid applier server url %q: scheme must be http or https", serverURL)
	}

	return &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// NewClientWithHTTPClient creates a client that sends requests through hc.
func NewClientWithHTTPClient(serverURL string, hc *http.Client) (*Client, error) {
	c, err := NewClient(serverURL, 0)
	if err != nil {
		return nil, err
	}
	c.httpClient = hc
	return c, nil
}

// BaseURL returns the server the client was created for.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// StatusPage fetches the applier's index page, which lists every namespace
// and module together with the run controls.
func (c *Client) StatusPage(ctx context.Context) (string, error) {
	body, _, err := c.do(ctx, http.MethodGet, statusPath, nil)
	if err != nil {
		return "", fmt.Errorf("failed to load status page: %w", err)
	}
	return body, nil
}

// ModuleDetail fetches the rendered detail fragment of one module.
func (c *Client) ModuleDetail(ctx context.Context, namespace, module string) (string, error) {
	if namespace == "" || module == "" {
		return "", ErrModuleRequired
	}

	body, _, err := c.do(ctx, http.MethodPost, modulePath, map[string]string{
		"namespace": namespace,
		"module":    module,
	})
	if err != nil {
		return "", fmt.Errorf("failed to load module %s/%s: %w", namespace, module, err)
	}
	return body, nil
}

// ForceRun asks the applier to queue a run and returns the server's message.
func (c *Client) ForceRun(ctx context.Context, req RunRequest) (string, error) {
	if req.Namespace == "" || req.Module == "" {
		return "", ErrModuleRequired
	}

	logging.Debug(apiSubsystem, "Requesting force run for %s (planOnly=%t)", req.NamespacedName(), req.PlanOnly)

	body, contentType, err := c.do(ctx, http.MethodPost, forceRunPath, req.payload())
	if err != nil {
		return "", fmt.Errorf("force run of %s failed: %w", req.NamespacedName(), err)
	}
	return runMessage(body, contentType), nil
}

// runMessage extracts the human readable message from a force run response.
// Older servers answer with {"message": ...}, newer ones with plain text.
func runMessage(body, contentType string) string {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	trimmed := strings.TrimSpace(body)
	if mediaType == "application/json" || strings.HasPrefix(trimmed, "{") {
		var resp runResponse
		if err := json.Unmarshal([]byte(trimmed), &resp); err == nil && resp.Message != "" {
			return resp.Message
		}
	}
	return trimmed
}

// do sends one request and classifies the response. Any status outside the
// 2xx range is a *StatusError, whatever the body looks like.
func (c *Client) do(ctx context.Context, method, path string, payload map[string]string) (string, string, error) {
	target := c.baseURL.JoinPath(path)

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return "", "", fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reqBody)
	if err != nil {
		return "", "", fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logging.Debug(apiSubsystem, "%s %s returned %d", method, path, resp.StatusCode)
		return "", "", &StatusError{Code: resp.StatusCode, Body: string(data)}
	}

	return string(data), resp.Header.Get("Content-Type"), nil
}
