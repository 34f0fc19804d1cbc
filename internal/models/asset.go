package models

// Asset is a picker-returned reference to a locally accessible image.
// URI is opaque: a file path, a file:// URL, a data: URI or an http(s) URL.
type Asset struct {
	URI      string `json:"uri"`
	FileName string `json:"file_name,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}
