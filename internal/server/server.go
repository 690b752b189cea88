// Package server exposes the picker over HTTP as JSON. It holds no session:
// every callback carries its own state in the button token.
package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/tartampluch/go-datepicker/internal/calendar"
	"github.com/tartampluch/go-datepicker/internal/config"
	"github.com/tartampluch/go-datepicker/internal/picker"
	"github.com/tartampluch/go-datepicker/internal/token"
)

// callbackRequest is the body of POST /picker/callback.
type callbackRequest struct {
	Data string `json:"data"`
}

// callbackResponse mirrors picker.Result on the wire.
type callbackResponse struct {
	View      *picker.View `json:"view,omitempty"`
	Text      string       `json:"text,omitempty"`
	Confirmed string       `json:"confirmed,omitempty"`
	Done      bool         `json:"done"`
}

// PickerServer serves initial views and processes taps.
type PickerServer struct {
	Picker *picker.Picker
	Port   string
}

// NewPickerServer creates a server bound to the given picker.
func NewPickerServer(p *picker.Picker, port string) *PickerServer {
	return &PickerServer{Picker: p, Port: port}
}

// Handler returns the routing table.
func (s *PickerServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RoutePicker, s.handleView)
	mux.HandleFunc(config.RouteCallback, s.handleCallback)
	return mux
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *PickerServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// handleView renders the initial keyboard. The body depends only on the
// query and the current date, so an ETag lets clients skip unchanged views.
func (s *PickerServer) handleView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethodsView)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	so, err := startOptions(r)
	if err != nil {
		http.Error(w, config.HTTPMsgBadRequest, http.StatusBadRequest)
		return
	}

	view, err := s.Picker.Start(so)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	body, err := json.Marshal(view)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	hash := sha256.Sum256(body)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	setJSONHeaders(w)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, etag)

	if r.Header.Get(config.HeaderIfNoneMatch) == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if r.Method == http.MethodGet {
		s.write(w, body)
	}
}

// handleCallback applies one tap.
func (s *PickerServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set(config.HeaderAllow, config.AllowedMethodsCall)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	var req callbackRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, config.MaxRequestBodySize))
	if err := dec.Decode(&req); err != nil {
		slog.Debug(config.ErrRequestBody,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
		http.Error(w, config.HTTPMsgBadRequest, http.StatusBadRequest)
		return
	}

	res, err := s.Picker.Process(req.Data)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	body, err := json.Marshal(callbackResponse{
		View:      res.View,
		Text:      res.Text,
		Confirmed: res.Confirmed,
		Done:      res.Done,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	setJSONHeaders(w)
	s.write(w, body)
}

// fail maps client mistakes to 400 and everything else to 500.
func (s *PickerServer) fail(w http.ResponseWriter, r *http.Request, err error) {
	log := slog.With(config.LogKeyComponent, config.CompServer, config.LogKeyError, err)
	switch {
	case errors.Is(err, token.ErrMalformedToken),
		errors.Is(err, picker.ErrUnknownView),
		errors.Is(err, calendar.ErrInvalidDate):
		log.DebugContext(r.Context(), config.HTTPMsgBadRequest)
		http.Error(w, config.HTTPMsgBadRequest, http.StatusBadRequest)
	default:
		log.ErrorContext(r.Context(), config.HTTPMsgInternalErr)
		http.Error(w, config.HTTPMsgInternalErr, http.StatusInternalServerError)
	}
}

func (s *PickerServer) write(w http.ResponseWriter, body []byte) {
	if _, err := w.Write(body); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}

func setJSONHeaders(w http.ResponseWriter) {
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
}

// startOptions reads view, year and month from the query. Absent values
// fall back to the picker defaults.
func startOptions(r *http.Request) (picker.StartOptions, error) {
	q := r.URL.Query()
	so := picker.StartOptions{Kind: picker.ViewKind(q.Get(config.QueryView))}

	if v := q.Get(config.QueryYear); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return so, err
		}
		so.Year = year
	}
	if v := q.Get(config.QueryMonth); v != "" {
		month, err := strconv.Atoi(v)
		if err != nil {
			return so, err
		}
		so.Month = time.Month(month)
	}
	return so, nil
}
