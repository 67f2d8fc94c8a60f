// Package server serves the scale lookup API, synthesized audio and a
// rendered board page.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/fretboard/model"
	"github.com/jsphweid/fretboard/scale"
	"github.com/rs/cors"
)

const RequestIDHeader = "X-Request-ID"

type Server struct {
	resolver   scale.Resolver
	sampleRate int
}

func New(resolver scale.Resolver, sampleRate int) *Server {
	if resolver == nil {
		resolver = scale.NewLocal()
	}
	return &Server{resolver: resolver, sampleRate: sampleRate}
}

func (s *Server) Router() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/", s.HandleBoard).Methods("GET")
	router.HandleFunc("/api/shapes", s.HandleShapes).Methods("GET")

	router.HandleFunc("/api/scale/{root}/{scaleType}", s.HandleScale).Methods("GET")
	router.HandleFunc("/api/scale/{root}/{scaleType}/shape/{shapeId}", s.HandleScale).Methods("GET")
	router.HandleFunc("/api/escala/{root}/{scaleType}", s.HandleScale).Methods("GET")
	router.HandleFunc("/api/escala/{root}/{scaleType}/dibujo/{shapeId}", s.HandleScale).Methods("GET")

	router.HandleFunc("/api/audio/note/{string}/{fret}", s.HandleNoteAudio).Methods("GET")
	router.HandleFunc("/api/audio/click", s.HandleClickAudio).Methods("GET")

	router.Use(requestID)
	return router
}

// Handler is the router wrapped in CORS handling for GET requests.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
		ExposedHeaders: []string{RequestIDHeader},
	})
	return c.Handler(s.Router())
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("server: listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("server: stopped")
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		slog.Info("request",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"took", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("server: encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}
