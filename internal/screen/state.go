package screen

// Labels shown by the screen.
const (
	Title            = "BoardBot"
	LabelSelect      = "Select Image"
	LabelSend        = "Send Image"
	LabelSending     = "Sending..."
	LabelConnected   = "Connected"
	LabelUnconnected = "Disconnected"
)

// State is everything the screen renders. It lives as long as the screen.
type State struct {
	SelectedImage  string // local locator chosen in the picker
	ProcessedImage string // locator returned by the server
	Loading        bool   // an upload is in flight
	Connected      bool   // status socket is open
}

// Display is the locator to show: the processed image supersedes the
// selected one. Empty means nothing to show.
func (s State) Display() string {
	if s.ProcessedImage != "" {
		return s.ProcessedImage
	}
	return s.SelectedImage
}

// CanUpload reports whether the send button is enabled.
func (s State) CanUpload() bool {
	return s.SelectedImage != "" && !s.Loading
}

func (s State) UploadLabel() string {
	if s.Loading {
		return LabelSending
	}
	return LabelSend
}

func (s State) StatusLabel() string {
	if s.Connected {
		return LabelConnected
	}
	return LabelUnconnected
}
