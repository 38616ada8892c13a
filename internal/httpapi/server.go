// Package httpapi exposes the tracker service over HTTP. Routes and payload
// shapes follow the FatFit web client.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/hammamikhairi/fatfit/internal/logger"
	"github.com/hammamikhairi/fatfit/internal/tracker"
)

// Authenticator guards routes that need a session token.
type Authenticator interface {
	Middleware(next http.Handler) http.Handler
}

// Option configures the server.
type Option func(*Server)

// WithAllowedOrigins sets the CORS origins allowed to send credentials.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// WithSecureCookies marks the login cookie Secure with SameSite=None, as
// needed by a cross-origin frontend over HTTPS.
func WithSecureCookies(secure bool) Option {
	return func(s *Server) {
		s.secureCookies = secure
	}
}

// Server routes HTTP requests to the tracker service.
type Server struct {
	svc           *tracker.Service
	auth          Authenticator
	quiz          json.RawMessage
	log           *logger.Logger
	origins       []string
	secureCookies bool
	router        *mux.Router
}

// New builds the router.
func New(svc *tracker.Service, auth Authenticator, quiz json.RawMessage, log *logger.Logger, opts ...Option) *Server {
	s := &Server{
		svc:           svc,
		auth:          auth,
		quiz:          quiz,
		log:           log,
		secureCookies: true,
		router:        mux.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router

	r.HandleFunc("/", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/quiz", s.handleQuiz).Methods(http.MethodGet)

	// Accounts.
	r.HandleFunc("/check-user", s.handleCheckUser).Methods(http.MethodPost)
	r.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/reset-password", s.handleResetPassword).Methods(http.MethodPatch)
	r.HandleFunc("/user/{username}", s.handleRenameUser).Methods(http.MethodPut)
	r.HandleFunc("/user/{username}", s.handleDeleteUser).Methods(http.MethodDelete)
	r.Handle("/fatfit/{username}", s.auth.Middleware(http.HandlerFunc(s.handleDashboard))).Methods(http.MethodGet)
	r.HandleFunc("/answers", s.handleSaveAnswers).Methods(http.MethodPost)

	// Search.
	r.HandleFunc("/fatsecret-search", s.handleFoodSearch).Methods(http.MethodGet)
	r.HandleFunc("/recipes/search", s.handleRecipeSearchWrapped).Methods(http.MethodGet)
	r.HandleFunc("/api/recipes/search", s.handleRecipeSearch).Methods(http.MethodGet)

	// AI plans.
	r.HandleFunc("/api/fitness-tribe/recipes/{username}", s.handleMealPlan).Methods(http.MethodPost)
	r.HandleFunc("/api/fitness-tribe/workout/{username}", s.handleWorkoutPlan).Methods(http.MethodPost)

	// Diary. The total route must be registered before the meal route.
	r.HandleFunc("/api/calories/{username}", s.handleAddFoods).Methods(http.MethodPost)
	r.HandleFunc("/api/recipes-calories/{username}", s.handleAddRecipeFoods).Methods(http.MethodPost)
	r.HandleFunc("/caloriecounter/{username}/total", s.handleGetTotal).Methods(http.MethodGet)
	r.HandleFunc("/caloriecounter/{username}/total", s.handleSetTotal).Methods(http.MethodPut)
	r.HandleFunc("/caloriecounter/{username}/{meal:breakfast|lunch|dinner|snacks}", s.handleMealFoods).Methods(http.MethodGet)
	r.HandleFunc("/food/{username}/{mealType}", s.handleDeleteFood).Methods(http.MethodDelete)
}

// Handler returns the router wrapped in CORS and request logging.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler(s.loggingMiddleware(s.router))
}
