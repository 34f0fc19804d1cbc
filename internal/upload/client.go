package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/harrylevesque/boardbot/internal/files"
	"github.com/harrylevesque/boardbot/internal/models"
	"github.com/harrylevesque/boardbot/internal/utils"
)

// Wire constants of the processing endpoint.
const (
	ProcessPath = "/process_image"
	FieldName   = "image"
	FileName    = "image.jpg"
	ContentType = "image/jpeg"
)

// ErrNoImage is returned when ProcessImage is called without an asset.
var ErrNoImage = errors.New("no image selected")

// Client posts images to the processing server.
type Client struct {
	baseURL  string
	http     *http.Client
	resolver *files.Resolver
	logger   zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each request. Zero keeps the default of no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			clone := *c.http
			clone.Timeout = d
			c.http = &clone
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a client for baseURL, e.g. http://127.0.0.1:5000.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.resolver = &files.Resolver{HTTP: c.http}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// Endpoint is the full URL images are posted to.
func (c *Client) Endpoint() string { return c.baseURL + ProcessPath }

// ProcessImage uploads the asset and returns the decoded response. A non-2xx
// answer is returned as *utils.HTTPError carrying the body text.
func (c *Client) ProcessImage(ctx context.Context, asset models.Asset) (*models.ProcessResponse, error) {
	if asset.URI == "" {
		return nil, ErrNoImage
	}

	res, err := c.resolver.Resolve(ctx, asset.URI)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	body, contentType, err := encodeForm(res.Data)
	if err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	c.logger.Info().Str("url", c.Endpoint()).Int("bytes", len(res.Data)).Msg("sending image")
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", c.Endpoint(), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug().
		Int("status", resp.StatusCode).
		Str("request_id", resp.Header.Get("X-Request-ID")).
		Str("digest", resp.Header.Get("X-Content-Digest")).
		Dur("took", time.Since(start)).
		Msg("server answered")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, utils.NewHTTPError(resp.StatusCode, string(data))
	}

	var out models.ProcessResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

// encodeForm builds the multipart body. CreateFormFile cannot be used: it
// forces application/octet-stream as the part type.
func encodeForm(data []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, FieldName, FileName))
	h.Set("Content-Type", ContentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
