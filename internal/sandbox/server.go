// Package sandbox is a local invoice service speaking the same REST API as the service of
// record. It validates and stores invoices and renders them as PDF documents, which makes it
// suitable for development and for exercising the client end to end.
package sandbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"invoices/pkg/models"
)

// BasePath is where the invoice collection is mounted.
const BasePath = "/invoices"

// Server serves the invoice API on top of a Store.
type Server struct {
	store  Store
	logger zerolog.Logger
	router chi.Router
}

// NewServer creates a server backed by store.
func NewServer(store Store, logger zerolog.Logger) *Server {
	s := &Server{
		store:  store,
		logger: logger.With().Str("component", "sandbox").Logger(),
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Location"},
		MaxAge:         300,
	}))

	r.Route(BasePath, func(r chi.Router) {
		r.Get("/", s.list)
		r.Post("/", s.create)
		r.Get("/pdf/{id}", s.pdf)
		r.Get("/{id}", s.get)
		r.Put("/{id}", s.update)
		r.Delete("/{id}", s.delete)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return r
}

// Seed stores inv as a new invoice without validating it and returns the assigned id.
func (s *Server) Seed(inv models.Invoice) (string, error) {
	inv.ID = uuid.NewString()
	if err := s.store.Create(&inv); err != nil {
		return "", fmt.Errorf("failed to seed invoice: %w", err)
	}
	s.logger.Info().Str("invoice_id", inv.ID).Msg("Invoice seeded")
	return inv.ID, nil
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("Starting invoice sandbox")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("sandbox server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Shutting down invoice sandbox")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("sandbox shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("sandbox server: %w", err)
	}
	return nil
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	invoices, err := s.store.List()
	if err != nil {
		s.internalError(w, err, "Internal server error while getting invoices.")
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	inv, err := s.store.Get(id)
	if errors.Is(err, ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "Invoice not found for passed id.")
		return
	}
	if err != nil {
		s.internalError(w, err, "Internal server error while getting invoice by id: "+id)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	inv, ok := s.decodeInvoice(w, r)
	if !ok {
		return
	}
	if details := validateInvoice(inv, false); len(details) > 0 {
		writeJSONError(w, http.StatusBadRequest, "Passed invoice is invalid.", details...)
		return
	}

	inv.ID = uuid.NewString()
	if err := s.store.Create(inv); err != nil {
		s.internalError(w, err, "Internal server error while saving specified invoice.")
		return
	}

	s.logger.Info().Str("invoice_id", inv.ID).Msg("Invoice added")
	w.Header().Set("Location", BasePath+"/"+inv.ID)
	writeJSON(w, http.StatusCreated, inv)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	inv, ok := s.decodeInvoice(w, r)
	if !ok {
		return
	}
	if details := validateInvoice(inv, true); len(details) > 0 {
		writeJSONError(w, http.StatusBadRequest, "Passed invoice is invalid.", details...)
		return
	}
	if inv.ID != id {
		writeJSONError(w, http.StatusBadRequest, "Passed data is invalid. Please verify invoice id.")
		return
	}

	err := s.store.Update(inv)
	if errors.Is(err, ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "Invoice not found.")
		return
	}
	if err != nil {
		s.internalError(w, err, "Internal server error while updating specified invoice.")
		return
	}

	s.logger.Info().Str("invoice_id", id).Msg("Invoice updated")
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	inv, err := s.store.Delete(id)
	if errors.Is(err, ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "Invoice not found.")
		return
	}
	if err != nil {
		s.internalError(w, err, "Internal server error while deleting specified invoice.")
		return
	}

	s.logger.Info().Str("invoice_id", id).Msg("Invoice deleted")
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) pdf(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	inv, err := s.store.Get(id)
	if errors.Is(err, ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "Invoice not found.")
		return
	}
	if err != nil {
		s.internalError(w, err, "Internal server error while trying to get PDF of invoice.")
		return
	}

	doc, err := RenderPDF(inv)
	if err != nil {
		s.internalError(w, err, "Internal server error while trying to get PDF of invoice.")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func (s *Server) decodeInvoice(w http.ResponseWriter, r *http.Request) (*models.Invoice, bool) {
	inv, err := models.DecodeInvoice(r.Body, false)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Passed invoice is invalid.", err.Error())
		return nil, false
	}
	return inv, true
}

func (s *Server) internalError(w http.ResponseWriter, err error, message string) {
	s.logger.Error().Err(err).Msg(message)
	writeJSONError(w, http.StatusInternalServerError, message)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("Request served")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes an error body in the shape the client expects.
func writeJSONError(w http.ResponseWriter, status int, message string, details ...string) {
	if details == nil {
		details = []string{}
	}
	writeJSON(w, status, models.ErrorMessage{Message: message, Details: details})
}
