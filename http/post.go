package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/farzanini/blog-app/domain"
	"github.com/farzanini/blog-app/errs"
)

// registerPostRoutes is a helper for registering all Post routes.
func (s *Server) registerPostRoutes(r *mux.Router) {
	// Browse the feed, page by page. Anyone may read it.
	r.HandleFunc("/feed", s.handleGetFeed).Methods("GET")

	// Read a single post by its slug.
	r.HandleFunc("/post/{slug:[a-z0-9\\-]+}", s.handleGetPost).Methods("GET")

	// Write a new post.
	r.HandleFunc("/post", s.requireAuth(s.handleCreatePost)).Methods("POST")

	// Update a post's featured image.
	r.HandleFunc("/post/{id:[0-9]+}/image", s.requireAuth(s.handleUpdatePostImage)).Methods("PUT")

	// Replace a post's tags.
	r.HandleFunc("/post/{id:[0-9]+}/tags", s.requireAuth(s.handleSetPostTags)).Methods("PUT")

	// List a user's posts.
	r.HandleFunc("/profile/{username}/posts", s.handleGetUserPosts).Methods("GET")
}

// handleGetFeed handles the route "GET /feed?cursor=:post_id".
// It returns one page of the reverse-chronological feed. The optional cursor
// is the next_cursor value of the previous page. Authenticated viewers get
// their like/bookmark flags filled in.
func (s *Server) handleGetFeed(w http.ResponseWriter, r *http.Request) {
	var cursorID int
	if raw := r.URL.Query().Get("cursor"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid cursor format."))
			return
		}
		cursorID = id
	}

	var viewerID int
	if user := s.getUserFromContext(r.Context()); user != nil {
		viewerID = user.ID
	}

	page, err := s.ps.Feed(viewerID, cursorID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(page); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleGetPost handles the route "GET /post/:slug".
// It returns the full post, or a not-found error if the slug matches nothing.
func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	var viewerID int
	if user := s.getUserFromContext(r.Context()); user != nil {
		viewerID = user.ID
	}

	post, err := s.ps.BySlug(slug, viewerID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(post); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleCreatePost handles the route "POST /post".
// It reads the post data from the json body and creates a new Post record,
// deriving the slug from the title.
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var post domain.Post
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	// The author is always the authed user, never the json body.
	user := s.getUserFromContext(r.Context())
	post.UserID = user.ID
	post.ID = 0
	post.Slug = ""

	if err := s.ps.Create(&post); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&post); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleUpdatePostImage handles the route "PUT /post/:id/image".
// It sets the post's featured image url. Only the post's owner may do that.
func (s *Server) handleUpdatePostImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	post, err := s.ps.ByID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	user := s.getUserFromContext(r.Context())
	if post.UserID != user.ID {
		errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "You are not allowed to edit this post."))
		return
	}

	var body struct {
		FeaturedImage string `json:"featured_image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}
	post.FeaturedImage = body.FeaturedImage

	if err := s.ps.Update(post); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(post); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleSetPostTags handles the route "PUT /post/:id/tags".
// It replaces the post's tag set. Only the post's owner may do that.
func (s *Server) handleSetPostTags(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	post, err := s.ps.ByID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	user := s.getUserFromContext(r.Context())
	if post.UserID != user.ID {
		errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "You are not allowed to edit this post."))
		return
	}

	var body struct {
		TagIDs []int `json:"tag_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	if err := s.ps.SetTags(post, body.TagIDs); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(post); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleGetUserPosts handles the route "GET /profile/:username/posts".
// It returns all posts written by the given user, newest first.
func (s *Server) handleGetUserPosts(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	var viewerID int
	if user := s.getUserFromContext(r.Context()); user != nil {
		viewerID = user.ID
	}

	// Resolve the username first so an unknown profile 404s instead of
	// returning an empty list.
	if _, err := s.us.ByUsername(username); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	posts, err := s.ps.ByUsername(username, viewerID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(posts); err != nil {
		errs.LogError(r, err)
		return
	}
}
