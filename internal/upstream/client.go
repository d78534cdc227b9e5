package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/kantinapp/kantin-gateway/pkg/config"
	pkgerrors "github.com/kantinapp/kantin-gateway/pkg/errors"
	"github.com/kantinapp/kantin-gateway/pkg/logger"
)

const (
	makerIDHeader   = "makerID"
	bodySnippetSize = 512
)

// Client talks to the remote canteen API. Every request carries the tenant
// header and, when provided, a role-scoped bearer token. Response bodies are
// decoded leniently: the upstream mixes bare arrays, wrapped arrays, and
// non-JSON text, so decoding never fails hard on shape.
type Client struct {
	baseURL string
	origin  string
	makerID string
	http    *http.Client
	logg    *logger.Logger
}

func NewClient(cfg config.UpstreamConfig, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("upstream base url is required")
	}
	if strings.TrimSpace(cfg.MakerID) == "" {
		return nil, fmt.Errorf("upstream maker id is required")
	}
	base := cfg.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return &Client{
		baseURL: base,
		origin:  cfg.Origin(),
		makerID: cfg.MakerID,
		http:    &http.Client{Timeout: cfg.Timeout},
		logg:    logg,
	}, nil
}

// Origin returns the upstream scheme://host, used to resolve relative photo paths.
func (c *Client) Origin() string {
	return c.origin
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + strings.TrimPrefix(path, "/")
}

func (c *Client) do(ctx context.Context, token, method, path string, body io.Reader, contentType string) (any, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upstream request")
	}
	req.Header.Set(makerIDHeader, c.makerID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "canteen api unreachable")
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "read upstream response")
	}

	decoded := safeJSON(raw)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		wire := &wireError{
			status:   res.StatusCode,
			endpoint: path,
			snippet:  snippet(raw),
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, wire, remoteMessage(decoded, raw, res.StatusCode))
	}

	return decoded, nil
}

func (c *Client) get(ctx context.Context, token, path string) (any, error) {
	return c.do(ctx, token, http.MethodGet, path, nil, "")
}

func (c *Client) getRaw(ctx context.Context, token, path string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path), nil)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upstream request")
	}
	req.Header.Set(makerIDHeader, c.makerID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "canteen api unreachable")
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "read upstream response")
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		wire := &wireError{status: res.StatusCode, endpoint: path, snippet: snippet(raw)}
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeUpstream, wire, remoteMessage(safeJSON(raw), raw, res.StatusCode))
	}
	return raw, res.Header.Get("Content-Type"), nil
}

// postForm submits a multipart form, the upstream convention for menu
// listing and mutations.
func (c *Client) postForm(ctx context.Context, token, path string, fields map[string]string) (any, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode form field")
		}
	}
	if err := writer.Close(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finalize form")
	}
	return c.do(ctx, token, http.MethodPost, path, &buf, writer.FormDataContentType())
}

func (c *Client) putForm(ctx context.Context, token, path string, fields url.Values) (any, error) {
	return c.do(ctx, token, http.MethodPut, path, strings.NewReader(fields.Encode()), "application/x-www-form-urlencoded")
}

func (c *Client) postJSON(ctx context.Context, token, path string, payload any) (any, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request body")
	}
	return c.do(ctx, token, http.MethodPost, path, bytes.NewReader(encoded), "application/json")
}

func (c *Client) delete(ctx context.Context, token, path string) (any, error) {
	return c.do(ctx, token, http.MethodDelete, path, nil, "")
}

// safeJSON decodes the body when it parses as JSON and keeps the raw text
// otherwise. Empty bodies decode to nil.
func safeJSON(raw []byte) any {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	var decoded any
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return string(trimmed)
	}
	return decoded
}

// remoteMessage extracts a human-readable failure message: conventional
// message fields first, then the raw body, then the bare status.
func remoteMessage(decoded any, raw []byte, status int) string {
	if record, ok := decoded.(map[string]any); ok {
		for _, key := range []string{"message", "msg"} {
			if msg := String(record[key]); msg != "" {
				return msg
			}
		}
	}
	if body := strings.TrimSpace(string(raw)); body != "" {
		return snippet([]byte(body))
	}
	return fmt.Sprintf("HTTP %d", status)
}

func snippet(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	if len(text) > bodySnippetSize {
		return text[:bodySnippetSize]
	}
	return text
}

// wireError carries upstream HTTP context through the error chain; it feeds
// pkg/errors.Dump for logging.
type wireError struct {
	status   int
	endpoint string
	snippet  string
}

func (e *wireError) Error() string {
	return fmt.Sprintf("upstream %s returned HTTP %d", e.endpoint, e.status)
}

func (e *wireError) HTTPStatus() int     { return e.status }
func (e *wireError) Endpoint() string    { return e.endpoint }
func (e *wireError) BodySnippet() string { return e.snippet }
