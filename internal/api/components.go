package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gridstore-core/internal/iidm"
	"github.com/nerrad567/gridstore-core/internal/journal"
	"github.com/nerrad567/gridstore-core/internal/registry"
)

// uploadField is the multipart field carrying the network document.
const uploadField = "iidm_file"

// errNoFile is returned when a multipart upload has no uploadField part.
var errNoFile = errors.New("no IIDM file provided")

// updateRequest is the request body for POST /api/iidm/update/{kind}.
type updateRequest struct {
	ID        string          `json:"id"`
	Component json.RawMessage `json:"component"`
}

// statusResponse is the body of successful mutations.
type statusResponse struct {
	Status string `json:"status"`
}

// uploadResponse is the response body for POST /api/iidm/upload.
type uploadResponse struct {
	Status     string `json:"status"`
	NetworkID  string `json:"network_id"`
	Registered int    `json:"registered"`
}

// componentResponse is the response body for GET /api/iidm/components/{id}.
type componentResponse struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Component json.RawMessage `json:"component"`
}

// handleUpload registers a network document.
// The document arrives either as the iidm_file part of a multipart form or as
// the raw JSON request body.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	network, err := s.readNetwork(r)
	if err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig):
			writeError(w, http.StatusRequestEntityTooLarge, ErrCodeTooLarge,
				fmt.Sprintf("upload exceeds %d bytes", tooBig.Limit))
		case errors.Is(err, errNoFile):
			writeBadRequest(w, err.Error())
		default:
			writeError(w, http.StatusBadRequest, ErrCodeInvalidUpload, err.Error())
		}
		return
	}

	ids, err := s.engine.Register(r.Context(), network)
	if err != nil {
		s.logger.Error("network registration failed",
			"network_id", network.ID,
			"error", err,
			"request_id", registry.RequestIDFromContext(r.Context()),
		)
		writeEngineError(w, err)
		return
	}

	s.logger.Info("network uploaded",
		"network_id", network.ID,
		"registered", len(ids),
		"subject", subjectOf(r),
	)
	writeJSON(w, http.StatusOK, uploadResponse{
		Status:     "Network registered successfully",
		NetworkID:  network.ID,
		Registered: len(ids),
	})
}

// readNetwork decodes the uploaded network from r.
func (s *Server) readNetwork(r *http.Request) (*iidm.Network, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		return iidm.DecodeNetwork(r.Body)
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("reading multipart body: %w", err)
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, errNoFile
		}
		if err != nil {
			return nil, fmt.Errorf("reading multipart body: %w", err)
		}
		if part.FormName() != uploadField {
			part.Close()
			continue
		}
		defer part.Close()
		return iidm.DecodeNetwork(part)
	}
}

// handleUpdate validates and applies a patch to one component.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeEngineError(w, err)
			return
		}
		writeBadRequest(w, "Failed to parse JSON: "+err.Error())
		return
	}
	if req.ID == "" {
		writeBadRequest(w, "id is required")
		return
	}
	if len(req.Component) == 0 {
		writeBadRequest(w, "component is required")
		return
	}

	u, err := s.engine.Update(r.Context(), kind, req.ID, req.Component)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	s.logger.Debug("component updated via API",
		"kind", kind,
		"id", req.ID,
		"changed", u.Changed(),
		"subject", subjectOf(r),
	)
	writeJSON(w, http.StatusOK, statusResponse{Status: "Component updated successfully"})
}

// handleComponent returns the current snapshot of one record.
func (s *Server) handleComponent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	kind, data, err := s.engine.Snapshot(id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, componentResponse{ID: id, Kind: kind, Component: data})
}

// handleKinds lists every declared kind with its patchable fields.
func (s *Server) handleKinds(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"kinds":  s.engine.Kinds(),
		"counts": s.engine.CountByKind(),
	})
}

// handleSchema returns the JSON-schema document of a kind's patch.
func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	doc, err := s.engine.Schema(chi.URLParam(r, "kind"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handleHistory returns the journal entries of one component, newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeNotFound(w, "journal is disabled")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeBadRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	id := chi.URLParam(r, "id")
	entries, err := s.history.History(r.Context(), id, journal.ClampLimit(limit))
	if err != nil {
		s.logger.Error("reading history failed", "id", id, "error", err)
		writeInternalError(w, "failed to read history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":      id,
		"entries": entries,
	})
}

// subjectOf names the authenticated caller for logs.
func subjectOf(r *http.Request) string {
	if c := claimsFromContext(r.Context()); c != nil {
		return c.Subject
	}
	return ""
}
