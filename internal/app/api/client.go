package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultUserAgent = "tgdweb/1.0"
	defaultTimeout   = 15 * time.Second

	// maxErrorBody bounds how much of a failed response is read for its detail.
	maxErrorBody = 64 << 10
)

// Options tunes a Client. The zero value is usable.
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client talks to the remote API. It is safe for concurrent use.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	log       *zap.Logger
}

// NewClient builds a Client for the API rooted at baseURL, which must be an
// absolute http(s) URL. A path prefix on baseURL is kept.
func NewClient(baseURL string, opts Options) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = defaultUserAgent
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:   base,
		http:      hc,
		userAgent: ua,
		log:       logger,
	}, nil
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// File is an upload payload.
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// request describes one API call. At most one of body and upload is set.
type request struct {
	method string
	path   string
	token  string
	body   any

	uploadField string
	upload      *File
}

func (c *Client) do(ctx context.Context, op string, req request, dest any) error {
	payload, contentType, err := encodeBody(req)
	if err != nil {
		return &Error{Op: op, Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.endpoint(req.path), payload)
	if err != nil {
		return &Error{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Warn("api request failed",
			zap.String("op", op),
			zap.String("request_id", requestID),
			zap.Error(err))
		return &Error{Op: op, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug("api request",
		zap.String("op", op),
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &Error{Op: op, Status: resp.StatusCode, Detail: parseDetail(body)}
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &Error{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) endpoint(path string) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawPath = ""
	return u.String()
}

func encodeBody(req request) (io.Reader, string, error) {
	switch {
	case req.upload != nil:
		return encodeMultipart(req.uploadField, req.upload)
	case req.body != nil:
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(req.body); err != nil {
			return nil, "", fmt.Errorf("encode body: %w", err)
		}
		return buf, "application/json", nil
	default:
		return nil, "", nil
	}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func encodeMultipart(field string, f *File) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(f.Name)))
	h.Set("Content-Type", ct)

	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create form part: %w", err)
	}
	if _, err := io.Copy(part, f.Body); err != nil {
		return nil, "", fmt.Errorf("copy upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return buf, mw.FormDataContentType(), nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("api base url is empty")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base url %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("api base url %q must be an absolute http(s) url", raw)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

func requireToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrNoToken
	}
	return nil
}
