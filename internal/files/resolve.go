package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrylevesque/boardbot/internal/imaging"
	"github.com/harrylevesque/boardbot/internal/utils"
)

// maxFetchBytes bounds what Resolve reads from a remote locator.
var maxFetchBytes int64 = 64 << 20

// ErrTooLarge is returned when a remote body exceeds the fetch limit.
var ErrTooLarge = errors.New("resource too large")

// Resource is the content behind a resource locator.
type Resource struct {
	Data     []byte
	MimeType string
}

// Resolver turns opaque locators into bytes.
type Resolver struct {
	HTTP *http.Client
}

// Resolve reads the content behind locator: data: URIs are decoded, http(s)
// URLs fetched, file:// URLs and plain paths read from disk.
func (r *Resolver) Resolve(ctx context.Context, locator string) (*Resource, error) {
	if locator == "" {
		return nil, fmt.Errorf("empty locator")
	}
	if imaging.IsDataURI(locator) {
		data, mt, err := imaging.DecodeDataURI(locator)
		if err != nil {
			return nil, err
		}
		return &Resource{Data: data, MimeType: mt}, nil
	}

	u, err := url.Parse(locator)
	if err == nil {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return r.fetch(ctx, locator)
		case "file":
			return readFile(u.Path)
		}
	}
	return readFile(locator)
}

func (r *Resolver) fetch(ctx context.Context, locator string) (*Resource, error) {
	client := r.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", locator, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes+1))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", locator, err)
	}
	if int64(len(body)) > maxFetchBytes {
		return nil, fmt.Errorf("fetch %s: %w", locator, ErrTooLarge)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, utils.NewHTTPError(resp.StatusCode, string(body))
	}
	mt := resp.Header.Get("Content-Type")
	if mt == "" {
		mt = http.DetectContentType(body)
	}
	if parsed, _, err := mime.ParseMediaType(mt); err == nil {
		mt = parsed
	}
	return &Resource{Data: body, MimeType: mt}, nil
}

func readFile(path string) (*Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	mt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mt == "" {
		mt = http.DetectContentType(data)
	}
	return &Resource{Data: data, MimeType: mt}, nil
}

// Extension picks a file extension for the resource's media type.
func (r *Resource) Extension() string {
	switch r.MimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	}
	if exts, _ := mime.ExtensionsByType(r.MimeType); len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}
