package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/farzanini/blog-app/domain"
	"github.com/farzanini/blog-app/errs"
)

// registerUserRoutes is a helper for registering all User routes.
func (s *Server) registerUserRoutes(r *mux.Router) {
	// Get the profile data of a specific user.
	r.HandleFunc("/profile/{username}", s.handleGetProfile).Methods("GET")

	// Update the authed user's data.
	r.HandleFunc("/profile/update", s.requireAuth(s.handleUpdateProfile)).Methods("PUT")

	// Update the authed user's avatar.
	r.HandleFunc("/profile/image", s.requireAuth(s.handleUpdateAvatar)).Methods("PUT")

	// Users the authed user might want to follow.
	r.HandleFunc("/suggestions", s.requireAuth(s.handleGetSuggestions)).Methods("GET")
}

// handleGetProfile handles the route "GET /profile/:username".
// It returns the user's basic data and association counts. When the viewer
// is authenticated and not looking at themselves, their follow edge towards
// the profile is included.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	user, err := s.us.ByUsername(username)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if viewer := s.getUserFromContext(r.Context()); viewer != nil && viewer.ID != user.ID {
		authFollow, err := s.us.GetAuthFollow(viewer.ID, user.ID)
		if err != nil {
			errs.ReturnError(w, r, err)
			return
		}
		user.AuthFollow = authFollow
	}

	if err := s.setUserAssociationCounts(user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(user); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleUpdateProfile handles the route "PUT /profile/update".
// It reads user data from the json body and updates the authed user's record.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var patch domain.User
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid update data."))
		return
	}

	// Check if the authed user is allowed to update that user record.
	authedUser := s.getUserFromContext(r.Context())
	if authedUser.ID != patch.ID {
		errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "You are not allowed to update this user."))
		return
	}

	// Copy the mutable fields onto the stored record, so everything the
	// json body doesn't know, the hashes and timestamps included, survives
	// the save untouched.
	user, err := s.us.ByID(patch.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	user.Name = patch.Name
	user.Username = patch.Username
	user.Email = patch.Email
	user.Image = patch.Image
	user.Password = patch.Password

	if err := s.us.Update(r.Context(), user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := s.setUserAssociationCounts(user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(user); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleUpdateAvatar handles the route "PUT /profile/image".
// It sets the authed user's avatar image url.
func (s *Server) handleUpdateAvatar(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Image string `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user := s.getUserFromContext(r.Context())
	user.Image = body.Image

	if err := s.us.Update(r.Context(), user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(user); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleGetSuggestions handles the route "GET /suggestions".
// It returns up to four users the authed user might want to follow, based
// on the tags of posts they liked or bookmarked.
func (s *Server) handleGetSuggestions(w http.ResponseWriter, r *http.Request) {
	user := s.getUserFromContext(r.Context())

	suggestions, err := s.us.Suggestions(user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(suggestions); err != nil {
		errs.LogError(r, err)
		return
	}
}

// setUserAssociationCounts takes a pointer to a user object, counts their
// posts, followers and followeds, and sets those numbers on the according fields.
func (s *Server) setUserAssociationCounts(user *domain.User) error {
	postCount, err := s.us.CountPosts(user.ID)
	if err != nil {
		return err
	}
	user.PostCount = postCount

	followerCount, err := s.us.CountFollowers(user.ID)
	if err != nil {
		return err
	}
	user.FollowerCount = followerCount

	followedCount, err := s.us.CountFolloweds(user.ID)
	if err != nil {
		return err
	}
	user.FollowedCount = followedCount

	return nil
}
