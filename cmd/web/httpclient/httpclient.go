package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"spacetraveling/cmd/internal/logger"
	"spacetraveling/cmd/web/trace"
)

const (
	headerRequestID = "X-Request-Id"
	headerSpanID    = "X-Span-Id"

	DefaultTimeout = 10 * time.Second
)

// Config 는 CMS 호출용 http.Client 설정이다.
type Config struct {
	Timeout   time.Duration
	Transport http.RoundTripper
}

// tracingTransport 는 아웃바운드 요청마다 span 을 하나 증가시켜 X-Request-Id / X-Span-Id 를 싣고,
// 결과를 구조화 로그로 남긴다.
type tracingTransport struct {
	inner http.RoundTripper
}

func (t *tracingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	requestID, spanID := trace.NextSpanID(req.Context())
	req.Header.Set(headerRequestID, requestID)
	req.Header.Set(headerSpanID, spanID)

	fields := logger.Fields{
		"method":     req.Method,
		"url":        req.URL.Redacted(),
		"request_id": requestID,
		"span_id":    spanID,
	}

	resp, err := t.inner.RoundTrip(req)
	fields["duration"] = time.Since(start).String()
	if err != nil {
		fields["error"] = err.Error()
		logger.ErrorWithFields("cms request failed", fields)
		return nil, err
	}

	fields["status"] = resp.StatusCode
	logger.DebugWithFields("cms request", fields)
	return resp, nil
}

// New 는 cfg 로 http.Client 를 만든다. Timeout 이 0 이면 DefaultTimeout 을 쓴다.
func New(cfg Config) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &tracingTransport{inner: transport},
	}
}

// BaseClient 는 CMS API 루트(baseURL)에 대한 GET 요청을 만든다.
type BaseClient struct {
	HTTPClient *http.Client
	BaseURL    string
}

// NewBaseClient 는 baseURL 용 BaseClient 를 만든다. httpClient 가 nil 이면 New(Config{}) 를 쓴다.
func NewBaseClient(baseURL string, httpClient *http.Client) *BaseClient {
	if httpClient == nil {
		httpClient = New(Config{})
	}
	return &BaseClient{
		HTTPClient: httpClient,
		BaseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Get 은 baseURL + relPath 로 GET 요청을 만든다. 쿼리는 query 로만 넘긴다.
func (c *BaseClient) Get(ctx context.Context, relPath string, query url.Values) (*http.Request, error) {
	if strings.Contains(relPath, "?") {
		return nil, fmt.Errorf("httpclient: relPath must not contain a query string: %s", relPath)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	if relPath != "" {
		u.Path = path.Join(u.Path, relPath)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
}

// Follow 는 CMS 가 돌려준 완성된 URL(next_page 커서 등)로 GET 요청을 만든다.
// baseURL 과 호스트가 다른 URL 이나 상대 URL 은 거부한다.
func (c *BaseClient) Follow(ctx context.Context, rawURL string) (*http.Request, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	if !target.IsAbs() || !strings.EqualFold(target.Host, base.Host) {
		return nil, fmt.Errorf("httpclient: url %q does not belong to %s", rawURL, base.Host)
	}
	return http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
}

func (c *BaseClient) Do(req *http.Request) (*http.Response, error) {
	return c.HTTPClient.Do(req)
}
