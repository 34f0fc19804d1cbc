package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/harrylevesque/boardbot/internal/crypto"
	"github.com/harrylevesque/boardbot/internal/imaging"
	"github.com/harrylevesque/boardbot/internal/models"
)

const (
	fieldImage   = "image"
	digestHeader = "X-Content-Digest"

	// room for multipart framing on top of the image itself
	formOverhead = 1 << 20
)

// ProcessHandler answers POST /process_image with the edge drawing of the
// uploaded image as a data: URI.
type ProcessHandler struct {
	params   imaging.Params
	maxBytes int64
	logger   zerolog.Logger
}

func (h *ProcessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	log := h.logger.With().Str("request_id", r.Header.Get(requestIDHeader)).Logger()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+formOverhead)
	file, _, err := r.FormFile(fieldImage)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, log, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		log.Debug().Err(err).Msg("no image part")
		writeError(w, log, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		writeError(w, log, http.StatusBadRequest, "could not read file")
		return
	}
	if len(data) == 0 {
		writeError(w, log, http.StatusBadRequest, "empty file")
		return
	}
	if int64(len(data)) > h.maxBytes {
		writeError(w, log, http.StatusRequestEntityTooLarge, "file too large")
		return
	}

	digest := crypto.Digest(data)
	w.Header().Set(digestHeader, digest)
	log.Info().Int("bytes", len(data)).Str("digest", digest).Msg("image received")

	out, err := imaging.Process(bytes.NewReader(data), h.params)
	if err != nil {
		if errors.Is(err, imaging.ErrDecode) {
			writeError(w, log, http.StatusBadRequest, "failed to decode image")
			return
		}
		if errors.Is(err, imaging.ErrTooLarge) {
			log.Warn().Err(err).Msg("image rejected")
			writeError(w, log, http.StatusRequestEntityTooLarge, "image too large")
			return
		}
		log.Error().Err(err).Msg("processing failed")
		writeError(w, log, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, log, http.StatusOK, models.ProcessResponse{
		ProcessedImage: imaging.DataURI("image/jpeg", out),
	})
}

func writeJSON(w http.ResponseWriter, log zerolog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}

func writeError(w http.ResponseWriter, log zerolog.Logger, status int, msg string) {
	writeJSON(w, log, status, models.ProcessResponse{Error: msg})
}
