package models

// ProcessResponse is the JSON body of POST /process_image. ProcessedImage is
// a resource locator (usually a data: URI) and may be absent.
type ProcessResponse struct {
	ProcessedImage string `json:"processedImage,omitempty"`
	Error          string `json:"error,omitempty"`
}

// HasResult reports whether the server returned a processed image.
func (r *ProcessResponse) HasResult() bool {
	return r != nil && r.ProcessedImage != ""
}
