package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"golang.org/x/oauth2"

	"github.com/farzanini/blog-app/crud"
	"github.com/farzanini/blog-app/domain"
)

// Server provides most of the http functionality of this app, namely routing,
// request handling, and middleware. It also performs authentication and
// authorization before handing things over to one of the crud services.
type Server struct {
	router *mux.Router
	us     domain.UserService
	ps     domain.PostService
	ts     domain.TagService
	ls     domain.LikeService
	bs     domain.BookmarkService
	fs     domain.FollowService
	cs     domain.CommentService
	os     domain.OAuthService
	github *oauth2.Config
}

// NewServer returns a new instance of the server, registers all necessary
// routes and gives their handlers access to the app services passed in.
func NewServer(isProd bool, csrfKey string, github *oauth2.Config, services *crud.Services) *Server {
	s := &Server{
		router: mux.NewRouter(),
		us:     services.User,
		ps:     services.Post,
		ts:     services.Tag,
		ls:     services.Like,
		bs:     services.Bookmark,
		fs:     services.Follow,
		cs:     services.Comment,
		os:     services.OAuth,
		github: github,
	}

	// Register routes of the auth system.
	s.registerAuthRoutes(s.router)
	s.registerOAuthRoutes(s.router)

	// Register routes of the crud system.
	s.registerPostRoutes(s.router)
	s.registerUserRoutes(s.router)
	s.registerTagRoutes(s.router)
	s.registerLikeRoutes(s.router)
	s.registerBookmarkRoutes(s.router)
	s.registerFollowRoutes(s.router)
	s.registerCommentRoutes(s.router)

	// Set up middleware that needs to run on every request. The CSRF
	// cookie is only marked secure in production so that plain http
	// works during development.
	csrfMw := csrf.Protect([]byte(csrfKey), csrf.Secure(isProd), csrf.Path("/"))
	s.router.Use(csrfMw, setContentTypeJSON, s.checkUser)
	return s
}

// The setContentTypeJSON middleware sets the content type to "application/json".
func setContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// Router exposes the underlying handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run starts to listen and serve on the specified port.
func (s *Server) Run(port int) {
	log.Printf("listening on :%d", port)
	log.Fatal(http.ListenAndServe(":"+strconv.Itoa(port), s.router))
}
