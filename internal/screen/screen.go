package screen

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/harrylevesque/boardbot/internal/models"
	"github.com/harrylevesque/boardbot/internal/picker"
)

// ErrBusy is returned by UploadImage while another upload is in flight.
var ErrBusy = errors.New("upload already in progress")

// Uploader sends an image to the processing server.
type Uploader interface {
	ProcessImage(ctx context.Context, asset models.Asset) (*models.ProcessResponse, error)
}

// Alerter shows a blocking message to the user.
type Alerter interface {
	Alert(title, message string)
}

// AlertFunc adapts a function to Alerter.
type AlertFunc func(title, message string)

func (f AlertFunc) Alert(title, message string) { f(title, message) }

type Option func(*Screen)

func WithAlerter(a Alerter) Option {
	return func(s *Screen) { s.alerter = a }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Screen) { s.logger = l }
}

// Screen composes image acquisition, upload and the connection indicator.
// It owns the state and notifies listeners after every change.
type Screen struct {
	picker   picker.Picker
	uploader Uploader
	alerter  Alerter
	logger   zerolog.Logger

	mu        sync.Mutex
	state     State
	asset     models.Asset
	listeners []func(State)
}

func New(p picker.Picker, u Uploader, opts ...Option) *Screen {
	s := &Screen{
		picker:   p,
		uploader: u,
		alerter:  AlertFunc(func(string, string) {}),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnChange registers fn to receive every new state.
func (s *Screen) OnChange(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Snapshot returns the current state.
func (s *Screen) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// PickImage opens the picker. A cancelled picker leaves the state untouched;
// a pick replaces the selected image and clears the processed one.
func (s *Screen) PickImage(ctx context.Context) error {
	res, err := s.picker.Launch(ctx, picker.ImageOptions())
	if err != nil {
		s.logger.Error().Err(err).Msg("picker failed")
		s.alerter.Alert("Error", fmt.Sprintf("Could not open image: %v", err))
		return err
	}
	asset, ok := res.First()
	if !ok {
		return nil
	}

	s.update(func(st *State) {
		s.asset = asset
		st.SelectedImage = asset.URI
		st.ProcessedImage = ""
	})
	s.logger.Debug().Str("uri", asset.URI).Msg("image selected")
	return nil
}

// UploadImage sends the selected image. Without a selection it does nothing.
// The in-flight flag is cleared however the upload ends. Failures are
// reported through the Alerter and returned.
func (s *Screen) UploadImage(ctx context.Context) (err error) {
	s.mu.Lock()
	if s.state.SelectedImage == "" {
		s.mu.Unlock()
		return nil
	}
	if s.state.Loading {
		s.mu.Unlock()
		return ErrBusy
	}
	s.state.Loading = true
	asset := s.asset
	st, listeners := s.state, s.copyListeners()
	s.mu.Unlock()
	notify(listeners, st)

	var resp *models.ProcessResponse
	defer func() {
		s.update(func(st *State) {
			st.Loading = false
			// a pick during the upload makes this answer stale
			if err == nil && resp.HasResult() && st.SelectedImage == asset.URI {
				st.ProcessedImage = resp.ProcessedImage
			}
		})
	}()

	resp, err = s.uploader.ProcessImage(ctx, asset)
	if err != nil {
		s.logger.Error().Err(err).Str("uri", asset.URI).Msg("upload failed")
		s.alerter.Alert("Error", fmt.Sprintf("Failed to send image: %v", err))
		return err
	}
	if !resp.HasResult() {
		s.logger.Warn().Msg("server answered without a processed image")
	}
	return nil
}

// SetConnected is the status monitor callback.
func (s *Screen) SetConnected(connected bool) {
	s.update(func(st *State) { st.Connected = connected })
}

func (s *Screen) update(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	st, listeners := s.state, s.copyListeners()
	s.mu.Unlock()
	notify(listeners, st)
}

// copyListeners must be called with mu held.
func (s *Screen) copyListeners() []func(State) {
	return append([]func(State){}, s.listeners...)
}

func notify(listeners []func(State), st State) {
	for _, l := range listeners {
		l(st)
	}
}
