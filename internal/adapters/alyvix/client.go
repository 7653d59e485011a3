package alyvix

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ghalamif/AlyvixCheck/internal/domain"
	"github.com/ghalamif/AlyvixCheck/internal/ports"
)

// Config captures how to reach the Alyvix Server REST API.
type Config struct {
	URL                string        `yaml:"url"`
	TestCases          []string      `yaml:"test_cases"`
	Timeout            time.Duration `yaml:"timeout"`
	InsecureSkipVerify *bool         `yaml:"insecure_skip_verify"`
}

func (c *Config) ApplyDefaults() {
	if c.URL == "" {
		c.URL = DefaultURL()
	}
	c.URL = strings.TrimRight(c.URL, "/")
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.InsecureSkipVerify == nil {
		skip := true
		c.InsecureSkipVerify = &skip
	}
}

func (c *Config) Validate() error {
	if c.URL == "" {
		return errors.New("url is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url %q: scheme must be http or https", c.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("url %q: missing host", c.URL)
	}
	return nil
}

// DefaultURL points at the local host's primary address over HTTPS.
func DefaultURL() string {
	host, err := os.Hostname()
	if err != nil {
		return "https://localhost"
	}
	addrs, err := net.LookupHost(host)
	if err != nil || len(addrs) == 0 {
		return "https://localhost"
	}
	for _, a := range addrs {
		if ip := net.ParseIP(a); ip != nil && ip.To4() != nil {
			return "https://" + a
		}
	}
	return "https://localhost"
}

type measuresResponse struct {
	Measures []domain.Measure `json:"measures"`
}

type testCasesResponse struct {
	TestCases []struct {
		Alias string `json:"testcase_alias"`
	} `json:"testcases"`
}

// Client reads measures from the Alyvix Server over HTTP(S).
type Client struct {
	cfg  Config
	http *http.Client
	obs  ports.Observability
}

func NewClient(cfg Config, obs ports.Observability) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: *cfg.InsecureSkipVerify}

	return &Client{
		cfg:  cfg,
		http: &http.Client{Transport: transport, Timeout: cfg.Timeout},
		obs:  obs,
	}, nil
}

func (c *Client) Name() string { return "alyvix_server" }

// BaseURL is the normalized server URL, used for report links.
func (c *Client) BaseURL() string { return c.cfg.URL }

func (c *Client) TestCases(ctx context.Context) ([]string, error) {
	endpoint := c.cfg.URL + "/v0/testcases/"

	var resp testCasesResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	aliases := make([]string, 0, len(resp.TestCases))
	for _, tc := range resp.TestCases {
		if tc.Alias != "" {
			aliases = append(aliases, tc.Alias)
		}
	}
	return aliases, nil
}

func (c *Client) Measures(ctx context.Context, testCase string) ([]domain.Measure, error) {
	endpoint := fmt.Sprintf("%s/v0/testcases/%s/", c.cfg.URL, url.PathEscape(testCase))

	var resp measuresResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.Measures, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	start := time.Now()
	err := c.doGetJSON(ctx, endpoint, out)
	if c.obs != nil {
		c.obs.ObserveLatency("alyvix_request_duration_seconds", time.Since(start).Seconds())
		if err != nil {
			c.obs.IncCounter("alyvix_request_errors_total", 1)
		}
	}
	return err
}

func (c *Client) doGetJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &ports.TransportError{URL: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &ports.TransportError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &ports.TransportError{URL: endpoint, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ports.TransportError{URL: endpoint, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

var _ ports.Source = (*Client)(nil)
