package imaging

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrNotDataURI is returned by DecodeDataURI for anything not starting with "data:".
var ErrNotDataURI = errors.New("not a data URI")

// DataURI renders data as a base64 data: URI.
func DataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// IsDataURI reports whether s looks like a data: URI.
func IsDataURI(s string) bool {
	return len(s) >= 5 && strings.EqualFold(s[:5], "data:")
}

// DecodeDataURI returns the payload and media type of a data: URI. Both the
// base64 and the percent-encoded forms are accepted.
func DecodeDataURI(s string) ([]byte, string, error) {
	if !IsDataURI(s) {
		return nil, "", ErrNotDataURI
	}
	meta, payload, ok := strings.Cut(s[5:], ",")
	if !ok {
		return nil, "", fmt.Errorf("data URI has no payload separator")
	}

	mime := "text/plain"
	isBase64 := false
	for i, part := range strings.Split(meta, ";") {
		switch {
		case i == 0 && part != "":
			mime = part
		case strings.EqualFold(part, "base64"):
			isBase64 = true
		}
	}

	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("decode data URI: %w", err)
		}
		return data, mime, nil
	}
	text, err := url.PathUnescape(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode data URI: %w", err)
	}
	return []byte(text), mime, nil
}
