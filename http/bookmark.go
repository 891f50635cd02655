package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/farzanini/blog-app/domain"
	"github.com/farzanini/blog-app/errs"
)

// registerBookmarkRoutes is a helper for registering all Bookmark routes.
func (s *Server) registerBookmarkRoutes(r *mux.Router) {
	// Bookmark a post.
	r.HandleFunc("/bookmark/{post_id:[0-9]+}", s.requireAuth(s.handleCreateBookmark)).Methods("POST")

	// Remove a previously set bookmark.
	r.HandleFunc("/unbookmark/{post_id:[0-9]+}", s.requireAuth(s.handleDeleteBookmark)).Methods("DELETE")

	// The authed user's reading list: their bookmarked posts, newest first.
	r.HandleFunc("/readinglist", s.requireAuth(s.handleGetReadingList)).Methods("GET")
}

// handleCreateBookmark handles the route "POST /bookmark/:post_id".
// It reads the post ID from the url and creates a new Bookmark record.
// Bookmarking a post twice returns a conflict.
func (s *Server) handleCreateBookmark(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.Atoi(mux.Vars(r)["post_id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	user := s.getUserFromContext(r.Context())
	bookmark := domain.Bookmark{
		UserID: user.ID,
		PostID: postID,
	}

	if err := s.bs.Create(&bookmark); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&bookmark); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleDeleteBookmark handles the route "DELETE /unbookmark/:post_id".
// It permanently deletes the authed user's bookmark of the given post.
func (s *Server) handleDeleteBookmark(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.Atoi(mux.Vars(r)["post_id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	user := s.getUserFromContext(r.Context())
	bookmark := domain.Bookmark{
		UserID: user.ID,
		PostID: postID,
	}

	if err := s.bs.Delete(&bookmark); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleGetReadingList handles the route "GET /readinglist".
// It returns the authed user's bookmarks along with the bookmarked posts.
func (s *Server) handleGetReadingList(w http.ResponseWriter, r *http.Request) {
	user := s.getUserFromContext(r.Context())

	bookmarks, err := s.bs.ByUserID(user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(bookmarks); err != nil {
		errs.LogError(r, err)
		return
	}
}
