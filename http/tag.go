package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/farzanini/blog-app/domain"
	"github.com/farzanini/blog-app/errs"
)

// registerTagRoutes is a helper for registering all Tag routes.
func (s *Server) registerTagRoutes(r *mux.Router) {
	r.HandleFunc("/tag", s.requireAuth(s.handleCreateTag)).Methods("POST")
	r.HandleFunc("/tags", s.requireAuth(s.handleGetTags)).Methods("GET")
}

// handleCreateTag handles the route "POST /tag".
// It reads the tag data from the json body and creates a new Tag record.
// A duplicate tag name returns a conflict.
func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var tag domain.Tag
	if err := json.NewDecoder(r.Body).Decode(&tag); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}
	tag.ID = 0
	tag.Slug = ""

	if err := s.ts.Create(&tag); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&tag); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleGetTags handles the route "GET /tags".
// It returns all tags, alphabetically.
func (s *Server) handleGetTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.ts.All()
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(tags); err != nil {
		errs.LogError(r, err)
		return
	}
}
