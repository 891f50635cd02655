package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/farzanini/blog-app/domain"
	"github.com/farzanini/blog-app/errs"
)

// registerCommentRoutes is a helper for registering all Comment routes.
func (s *Server) registerCommentRoutes(r *mux.Router) {
	r.HandleFunc("/post/{id:[0-9]+}/comment", s.requireAuth(s.handleCreateComment)).Methods("POST")
	r.HandleFunc("/post/{id:[0-9]+}/comments", s.handleGetComments).Methods("GET")
}

// handleCreateComment handles the route "POST /post/:id/comment".
// It reads the comment content from the json body and creates a new
// Comment record on the given post.
func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	var comment domain.Comment
	if err := json.NewDecoder(r.Body).Decode(&comment); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user := s.getUserFromContext(r.Context())
	comment.ID = 0
	comment.UserID = user.ID
	comment.PostID = postID

	if err := s.cs.Create(&comment); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&comment); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleGetComments handles the route "GET /post/:id/comments".
// It returns all comments on the given post, oldest first.
func (s *Server) handleGetComments(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	// 404 for comments on a post that doesn't exist.
	if _, err := s.ps.ByID(postID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	comments, err := s.cs.ByPostID(postID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(comments); err != nil {
		errs.LogError(r, err)
		return
	}
}
