package contentstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goran-ethernal/TicketIndexor/internal/common"
	"github.com/goran-ethernal/TicketIndexor/internal/logger"
	"github.com/goran-ethernal/TicketIndexor/internal/metrics"
	"github.com/goran-ethernal/TicketIndexor/pkg/config"
	"github.com/goran-ethernal/TicketIndexor/pkg/contentstore"
	lru "github.com/hashicorp/golang-lru/v2"
)

// maxDocumentSize bounds a single downloaded document.
const maxDocumentSize = 1 << 20

var _ contentstore.Store = (*Client)(nil)

// Client reads documents through an HTTP gateway and uploads them to a pinning endpoint.
// Documents are immutable per content id, so raw bodies are cached.
type Client struct {
	cfg   config.ContentStoreConfig
	http  *http.Client
	cache *lru.Cache[string, []byte]
	log   *logger.Logger
}

// NewClient creates a gateway client. cfg must have defaults applied.
func NewClient(cfg config.ContentStoreConfig, log *logger.Logger) (*Client, error) {
	if cfg.Retry == nil {
		cfg.Retry = &config.RetryConfig{}
	}

	c := &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout.Duration},
		log:  log,
	}

	if cfg.CacheSize > 0 {
		cache, err := lru.New[string, []byte](cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create document cache: %w", err)
		}
		c.cache = cache
	}

	return c, nil
}

// Get downloads the document referenced by ref and decodes it into out.
// All failures are reported as ErrMetadataFetch.
func (c *Client) Get(ctx context.Context, ref string, out any) (err error) {
	start := time.Now()
	defer func() {
		metrics.MetadataFetchDuration("get", time.Since(start))
		if err != nil {
			metrics.MetadataFetchInc("get", metrics.OutcomeFailed)
			err = fmt.Errorf("%w: %s: %w", common.ErrMetadataFetch, ref, err)
			return
		}
		metrics.MetadataFetchInc("get", metrics.OutcomeSuccess)
	}()

	cid, err := contentstore.ContentID(ref)
	if err != nil {
		return err
	}

	body, ok := c.cached(cid)
	if !ok {
		url := contentstore.GatewayURI(c.cfg.GatewayURL, cid)
		body, err = c.do(ctx, "get", func() (*http.Request, error) {
			return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		})
		if err != nil {
			return err
		}
		if c.cache != nil {
			c.cache.Add(cid, body)
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("malformed document: %w", err)
	}

	return nil
}

type uploadResponse struct {
	Hash     string `json:"Hash"`
	IpfsHash string `json:"IpfsHash"`
	CID      string `json:"cid"`
}

func (r uploadResponse) contentID() string {
	for _, v := range []string{r.IpfsHash, r.Hash, r.CID} {
		if v != "" {
			return v
		}
	}
	return ""
}

// Put uploads v as JSON and returns its content id.
func (c *Client) Put(ctx context.Context, v any) (cid string, err error) {
	start := time.Now()
	defer func() {
		metrics.MetadataFetchDuration("put", time.Since(start))
		outcome := metrics.OutcomeSuccess
		if err != nil {
			outcome = metrics.OutcomeFailed
		}
		metrics.MetadataFetchInc("put", outcome)
	}()

	if c.cfg.UploadURL == "" {
		return "", errors.New("content store upload url is not configured")
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}

	body, err := c.do(ctx, "put", func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.UploadURL, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if c.cfg.APIToken != "" {
			req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
		}
		return req, nil
	})
	if err != nil {
		return "", err
	}

	var resp uploadResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}

	cid = resp.contentID()
	if cid == "" {
		return "", fmt.Errorf("upload response carries no content id: %s", strings.TrimSpace(string(body)))
	}

	if c.cache != nil {
		c.cache.Add(cid, payload)
	}

	c.log.Debugf("uploaded document %s (%d bytes)", cid, len(payload))

	return cid, nil
}

// do executes the request built by newReq, retrying transport errors, 429 and 5xx responses.
func (c *Client) do(ctx context.Context, op string, newReq func() (*http.Request, error)) ([]byte, error) {
	var body []byte

	operation := func() error {
		req, err := newReq()
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return fmt.Errorf("failed to perform request: %w", err)
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				c.log.Warnf("failed to close response body of %s: %v", req.URL, err)
			}
		}()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
			return fmt.Errorf("gateway returned %d", resp.StatusCode)
		case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
			return backoff.Permanent(fmt.Errorf("unexpected status code %d: %s",
				resp.StatusCode, strings.TrimSpace(string(data))))
		case len(data) > maxDocumentSize:
			return backoff.Permanent(fmt.Errorf("document exceeds %d bytes", maxDocumentSize))
		}

		body = data
		return nil
	}

	notify := func(err error, wait time.Duration) {
		c.log.Warnf("content store %s failed, retrying in %v: %v", op, wait, err)
	}

	if err := backoff.RetryNotify(operation, c.cfg.Retry.BackOff(ctx), notify); err != nil {
		return nil, err
	}

	return body, nil
}

func (c *Client) cached(cid string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	return c.cache.Get(cid)
}
