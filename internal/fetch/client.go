package fetch

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/sha3"
	"golang.org/x/net/proxy"
)

const (
	// DefaultTimeout bounds a whole request including the body download.
	DefaultTimeout = 2 * time.Minute

	// DefaultUserAgent is the User-Agent sent with every request.
	DefaultUserAgent = "Mozilla/5.0"

	// DefaultAccept is the Accept header sent with every request.
	DefaultAccept = "text/csv,text/plain,*/*"

	// DefaultMaxBodySize is the largest body accepted, in bytes.
	// The site-scanning dataset is a few hundred megabytes.
	DefaultMaxBodySize int64 = 1 << 30

	// maxRedirects stops redirect loops.
	maxRedirects = 10
)

// Download is a completed GET.
type Download struct {
	URL        string
	StatusCode int
	Body       []byte

	// Digest is the hex-encoded SHA3-256 of Body.
	Digest string
}

// Client downloads remote CSV documents.
type Client struct {
	httpClient  *http.Client
	proxyAddr   string
	timeout     time.Duration
	userAgent   string
	headers     map[string]string
	maxBodySize int64
}

// Option configures a Client.
type Option func(*Client)

// WithProxy routes connections through the SOCKS5 proxy at addr ("host:port").
func WithProxy(addr string) Option {
	return func(c *Client) {
		c.proxyAddr = addr
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithHeader adds a header to every request. An empty value is ignored,
// so callers can pass optional secrets unconditionally.
func WithHeader(name, value string) Option {
	return func(c *Client) {
		if value == "" {
			return
		}
		c.headers[name] = value
	}
}

// WithMaxBodySize limits the accepted body size. Zero or less means no limit.
func WithMaxBodySize(n int64) Option {
	return func(c *Client) {
		c.maxBodySize = n
	}
}

// WithHTTPClient uses hc instead of building a transport.
// Headers are still injected; the proxy option is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a Client.
//
// The proxy address is validated here, but nothing is dialed until the
// first request.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		timeout:     DefaultTimeout,
		userAgent:   DefaultUserAgent,
		headers:     make(map[string]string),
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(c)
	}

	base := c.httpClient
	if base == nil {
		transport, err := c.newTransport()
		if err != nil {
			return nil, err
		}
		base = &http.Client{
			Transport: transport,
			Timeout:   c.timeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return http.ErrUseLastResponse
				}
				return nil
			},
		}
	}

	rt := base.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	injected := *base
	injected.Transport = &headerInjectingTransport{
		base:      rt,
		userAgent: c.userAgent,
		headers:   c.headers,
	}
	c.httpClient = &injected

	return c, nil
}

func (c *Client) newTransport() (*http.Transport, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert // DefaultTransport is always *http.Transport
	if c.proxyAddr == "" {
		return transport, nil
	}

	if !isValidProxyAddress(c.proxyAddr) {
		return nil, ErrInvalidProxyAddress
	}
	dialer, err := proxy.SOCKS5("tcp", c.proxyAddr, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}
	transport.Proxy = nil
	transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		if cd, ok := dialer.(proxy.ContextDialer); ok {
			return cd.DialContext(ctx, network, addr)
		}
		return dialer.Dial(network, addr)
	}
	return transport, nil
}

// Get downloads url.
//
// The whole body is read and hashed before returning. Any status other than
// 200 yields a *StatusError; the body is discarded in that case.
func (c *Client) Get(ctx context.Context, url string) (*Download, error) {
	if url == "" {
		return nil, ErrEmptyURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := c.readBody(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}

	sum := sha3.Sum256(body)
	return &Download{
		URL:        url,
		StatusCode: resp.StatusCode,
		Body:       body,
		Digest:     hex.EncodeToString(sum[:]),
	}, nil
}

func (c *Client) readBody(r io.Reader) ([]byte, error) {
	if c.maxBodySize <= 0 {
		return io.ReadAll(r)
	}
	body, err := io.ReadAll(io.LimitReader(r, c.maxBodySize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > c.maxBodySize {
		return nil, fmt.Errorf("%w (%d bytes)", ErrBodyTooLarge, c.maxBodySize)
	}
	return body, nil
}

// isValidProxyAddress checks for "host:port" with a port in 1-65535.
func isValidProxyAddress(address string) bool {
	host, port, ok := strings.Cut(address, ":")
	if !ok || host == "" || strings.Contains(port, ":") {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}

// headerInjectingTransport sets the default and configured headers on every
// request, including the ones issued for redirects.
type headerInjectingTransport struct {
	base      http.RoundTripper
	userAgent string
	headers   map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if t.userAgent != "" {
		clone.Header.Set("User-Agent", t.userAgent)
	}
	if clone.Header.Get("Accept") == "" {
		clone.Header.Set("Accept", DefaultAccept)
	}
	for k, v := range t.headers {
		clone.Header.Set(k, v)
	}
	return t.base.RoundTrip(clone)
}
