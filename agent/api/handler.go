// Package api exposes the session engine over HTTP. It is a thin translation
// layer: JSON in, engine call, JSON out. All session semantics live below.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/tmaharjan/voxcore/agent/contract"
	enginex "github.com/tmaharjan/voxcore/agent/engine"
	statex "github.com/tmaharjan/voxcore/agent/state"
)

// maxRequestBodySize caps tool call payloads (1MB).
const maxRequestBodySize = 1 << 20

type Server struct {
	engine *enginex.Engine
}

func NewServer(engine *enginex.Engine) *Server {
	return &Server{engine: engine}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleEndSession)
			r.Get("/tools", s.handleListTools)
			r.Post("/tools", s.handleInvokeTool)
		})
	})
	return r
}

type createSessionRequest struct {
	Flavor string `json:"flavor"`
}

type invokeToolRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

type toolSummary struct {
	Name string `json:"name"`
	Desc string `json:"desc"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	flavor, ok := statex.ParseFlavor(req.Flavor)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown flavor %q, want sdr, tutor or story", req.Flavor))
		return
	}

	sess, err := s.engine.CreateSession(uuid.NewString(), flavor)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.engine.Snapshot(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.EndSession(chi.URLParam(r, "sessionID")); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	infos, err := s.engine.ToolsFor(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	out := make([]toolSummary, 0, len(infos))
	for _, info := range infos {
		out = append(out, toolSummary{Name: info.Name, Desc: info.Desc})
	}
	writeJSON(w, http.StatusOK, map[string]any{"tools": out})
}

func (s *Server) handleInvokeTool(w http.ResponseWriter, r *http.Request) {
	var req invokeToolRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	reply, err := s.engine.HandleTool(r.Context(), contractx.ToolCall{
		SessionID: chi.URLParam(r, "sessionID"),
		Tool:      req.Tool,
		Args:      req.Args,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, contractx.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, contractx.ErrSessionExists):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, contractx.ErrValidation), errors.Is(err, statex.ErrInvalidFlavor):
		writeError(w, http.StatusBadRequest, err)
	default:
		log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write response failed")
	}
}
