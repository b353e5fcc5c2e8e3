package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/groblegark/entityd/internal/events"
	"github.com/groblegark/entityd/internal/model"
	"github.com/groblegark/entityd/internal/query"
)

// Pagination bounds for GET /entities.
const (
	defaultLimit = 100
	maxLimit     = 1000
	maxSkip      = 10000
)

// handleCreateEntity handles POST /entities.
func (s *EntityServer) handleCreateEntity(w http.ResponseWriter, r *http.Request) {
	var in model.EntityInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := model.ValidateInput(&in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entity := &model.Entity{
		CreatedAt: time.Now().UTC(),
		CreatedBy: in.CreatedBy,
		Data:      in.Data,
	}
	if err := s.store.CreateEntity(r.Context(), entity); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create entity")
		return
	}

	s.publish(r.Context(), events.TopicEntityCreated, events.EntityCreated{Entity: entity})

	writeJSON(w, http.StatusOK, entity)
}

// handleGetEntity handles GET /entities/{id}.
func (s *EntityServer) handleGetEntity(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	entity, err := s.store.GetEntity(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "entity not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get entity")
		return
	}

	writeJSON(w, http.StatusOK, entity)
}

// handleListEntities handles GET /entities.
// All four JSON filter parameters are validated before any query runs; a
// single invalid parameter fails the whole request.
func (s *EntityServer) handleListEntities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	skip, ok := parseBoundedInt(w, q.Get("skip"), "skip", 0, 0, maxSkip)
	if !ok {
		return
	}
	limit, ok := parseBoundedInt(w, q.Get("limit"), "limit", defaultLimit, 1, maxLimit)
	if !ok {
		return
	}

	filter, err := query.Build(query.Params{
		JSONPath:      q.Get("json_path"),
		JSONValue:     q.Get("json_value"),
		JSONContains:  q.Get("json_contains"),
		JSONKeyExists: q.Get("json_key_exists"),
	})
	if err != nil {
		var ie *query.InputError
		if errors.As(err, &ie) {
			writeError(w, http.StatusBadRequest, ie.Error())
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	filter.Skip = skip
	filter.Limit = limit

	entities, err := s.store.ListEntities(r.Context(), *filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list entities")
		return
	}

	// Ensure the response is never null in JSON output.
	if entities == nil {
		entities = []*model.Entity{}
	}

	writeJSON(w, http.StatusOK, entities)
}

// handleUpdateEntity handles PUT /entities/{id}. The body replaces
// created_by and data; id and created_at are untouched.
func (s *EntityServer) handleUpdateEntity(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var in model.EntityInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := model.ValidateInput(&in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entity := &model.Entity{
		ID:        id,
		CreatedBy: in.CreatedBy,
		Data:      in.Data,
	}
	err := s.store.UpdateEntity(r.Context(), entity)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "entity not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update entity")
		return
	}

	s.publish(r.Context(), events.TopicEntityUpdated, events.EntityUpdated{Entity: entity})

	writeJSON(w, http.StatusOK, entity)
}

// handleDeleteEntity handles DELETE /entities/{id}.
func (s *EntityServer) handleDeleteEntity(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	err := s.store.DeleteEntity(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "entity not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete entity")
		return
	}

	s.publish(r.Context(), events.TopicEntityDeleted, events.EntityDeleted{ID: id})

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// parseID extracts and parses the {id} path segment. On failure it writes a
// 400 response and returns ok=false.
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be an integer")
		return 0, false
	}
	return id, true
}

// parseBoundedInt parses an optional integer query parameter, enforcing
// inclusive bounds. On failure it writes a 400 response and returns ok=false.
func parseBoundedInt(w http.ResponseWriter, raw, name string, def, min, max int) (int, bool) {
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, name+" must be an integer")
		return 0, false
	}
	if n < min || n > max {
		writeError(w, http.StatusBadRequest, name+" out of range")
		return 0, false
	}
	return n, true
}
