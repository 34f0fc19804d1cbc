package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/harrylevesque/boardbot/internal/imaging"
)

// Options configure the processing server.
type Options struct {
	Params         imaging.Params
	MaxUploadBytes int64
	Logger         zerolog.Logger
}

// NewRouter serves the image processing API.
func NewRouter(opts Options) *mux.Router {
	h := &ProcessHandler{
		params:   opts.Params,
		maxBytes: opts.MaxUploadBytes,
		logger:   opts.Logger,
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if _, err := fmt.Fprintln(w, "OK"); err != nil {
			opts.Logger.Debug().Err(err).Msg("health write failed")
		}
	}).Methods(http.MethodGet)
	r.Handle("/process_image", h).Methods(http.MethodPost, http.MethodOptions)

	r.Use(requestID)
	r.Use(cors)
	r.Use(mux.CORSMethodMiddleware(r))
	r.Use(accessLog(opts.Logger))
	return r
}

// NewStatusRouter serves the status socket on every path, so a client may
// dial the bare host:port.
func NewStatusRouter(sock *StatusSocket) *mux.Router {
	r := mux.NewRouter()
	r.PathPrefix("/").Handler(sock)
	return r
}
