package httpclient

import (
	"context"
	"encoding/json"
	"mime"
	"net/url"
	"path"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/pkg/logger"
	"github.com/gaze-network/nft-minter/pkg/logger/slogx"
	"github.com/valyala/fasthttp"
)

type Config struct {
	// Debug logs every finished request.
	Debug bool

	// Headers are sent with every request.
	Headers map[string]string

	// Timeout bounds each request. Zero means only the context deadline applies.
	Timeout time.Duration
}

type Client struct {
	baseURL *url.URL
	Config
}

func New(baseURL string, config ...Config) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "can't parse base url")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.Errorf("unsupported url scheme %q", parsed.Scheme)
	}
	var cf Config
	if len(config) > 0 {
		cf = config[0]
	}
	return &Client{baseURL: parsed, Config: cf}, nil
}

type RequestOptions struct {
	Body   []byte
	Query  url.Values
	Header map[string]string
}

type HttpResponse struct {
	URL string
	fasthttp.Response
}

// UnmarshalBody decodes a JSON body into out.
func (r *HttpResponse) UnmarshalBody(out any) error {
	mediaType, _, err := mime.ParseMediaType(string(r.Header.ContentType()))
	if err != nil || mediaType != "application/json" {
		return errors.Errorf("unsupported content type %q from %s", r.Header.ContentType(), r.URL)
	}
	body, err := r.BodyUncompressed()
	if err != nil {
		return errors.Wrapf(err, "can't uncompress body from %s", r.URL)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrapf(err, "can't unmarshal json body from %s", r.URL)
	}
	return nil
}

// BaseURL returns a copy of the client base URL.
func (h *Client) BaseURL() *url.URL {
	u := *h.baseURL
	return &u
}

func (h *Client) Get(ctx context.Context, path string, opts RequestOptions) (*HttpResponse, error) {
	return h.Do(ctx, fasthttp.MethodGet, path, opts)
}

func (h *Client) Post(ctx context.Context, path string, opts RequestOptions) (*HttpResponse, error) {
	return h.Do(ctx, fasthttp.MethodPost, path, opts)
}

// Do sends a request to path relative to the base URL. Query values are merged with the base URL query.
func (h *Client) Do(ctx context.Context, method, reqPath string, opts RequestOptions) (*HttpResponse, error) {
	target := h.BaseURL()
	if reqPath != "" {
		target.Path = path.Join(target.Path, reqPath)
	}
	query := target.Query()
	for k, values := range opts.Query {
		for _, v := range values {
			query.Add(k, v)
		}
	}
	target.RawQuery = query.Encode()
	uri := target.String()

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	for k, v := range h.Headers {
		req.Header.Set(k, v)
	}
	for k, v := range opts.Header {
		req.Header.Set(k, v)
	}
	if opts.Body != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(opts.Body)
	}

	start := time.Now()
	err := h.do(ctx, req, resp)
	if h.Debug {
		logger.DebugContext(ctx, "Finished request",
			slogx.String("package", "httpclient"),
			slogx.String("method", method),
			slogx.String("url", uri),
			slogx.Duration("latency", time.Since(start)),
			slogx.Int("status_code", resp.StatusCode()),
			slogx.Int("resp_content_length", len(resp.Body())),
			slogx.Error(err),
		)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "url: %s", uri)
	}

	out := &HttpResponse{URL: uri}
	resp.CopyTo(&out.Response)
	return out, nil
}

// do applies the shorter of Timeout and the context deadline.
func (h *Client) do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	timeout := h.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); timeout <= 0 || remaining < timeout {
			timeout = remaining
		}
	}
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}
	if timeout > 0 {
		return errors.WithStack(fasthttp.DoTimeout(req, resp, timeout))
	}
	return errors.WithStack(fasthttp.Do(req, resp))
}
