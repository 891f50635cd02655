package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/farzanini/blog-app/domain"
	"github.com/farzanini/blog-app/errs"
)

// registerOAuthRoutes is a helper for registering all oauth routes.
func (s *Server) registerOAuthRoutes(r *mux.Router) {
	r.HandleFunc("/oauth/github", s.handleGithubLogin).Methods("GET")
	r.HandleFunc("/oauth/github/callback", s.handleGithubCallback).Methods("GET")
}

// handleGithubLogin handles the route "GET /oauth/github".
// It sets a state cookie and redirects the client to Github's consent page.
func (s *Server) handleGithubLogin(w http.ResponseWriter, r *http.Request) {
	state, err := s.us.MakeRememberToken()
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		HttpOnly: true,
	})
	http.Redirect(w, r, s.github.AuthCodeURL(state), http.StatusFound)
}

// githubUser is the part of Github's user payload this app cares about.
type githubUser struct {
	ID    int    `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// handleGithubCallback handles the route "GET /oauth/github/callback".
// It verifies the state, exchanges the code for a token, fetches the Github
// account, and resolves it to a local user. Unknown accounts get a fresh
// user record without a password. Finally the user is signed in via cookie.
func (s *Server) handleGithubCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value != r.FormValue("state") {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid oauth state."))
		return
	}

	token, err := s.github.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid oauth code."))
		return
	}

	client := s.github.Client(r.Context(), token)
	resp, err := client.Get("https://api.github.com/user")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	defer resp.Body.Close()

	var ghUser githubUser
	if err := json.NewDecoder(resp.Body).Decode(&ghUser); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	user, err := s.userForGithubAccount(r, &ghUser)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := s.signIn(w, r.Context(), user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	http.Redirect(w, r, "/feed", http.StatusFound)
}

// userForGithubAccount resolves a Github account to a local user,
// creating the user and the link record on first sign-in.
func (s *Server) userForGithubAccount(r *http.Request, ghUser *githubUser) (*domain.User, error) {
	providerUserID := strconv.Itoa(ghUser.ID)
	existing, err := s.os.ByProviderUserID("github", providerUserID)
	if err == nil {
		return s.us.ByID(existing.UserID)
	}
	if errs.ErrorCode(err) != errs.ENOTFOUND {
		return nil, err
	}

	user := &domain.User{
		Name:             ghUser.Name,
		Username:         ghUser.Login,
		Email:            ghUser.Email,
		NoPasswordNeeded: true,
	}
	if err := s.us.Create(r.Context(), user); err != nil {
		return nil, err
	}
	oauth := &domain.OAuth{
		UserID:         user.ID,
		Provider:       "github",
		ProviderUserID: providerUserID,
	}
	if err := s.os.Create(oauth); err != nil {
		return nil, err
	}
	return user, nil
}
