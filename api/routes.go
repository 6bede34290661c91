package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/garnizeh/skillswap/internal/guard"
)

func SetupRoutes(version, buildTime string, svc *Services) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(MetricsMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Create handlers
	systemHandler := &SystemHandler{DB: svc.DB.GetConn()}
	authHandler := NewAuthHandler(svc)
	profileHandler := NewProfileHandler(svc)
	skillsHandler := NewSkillsHandler(svc)
	usersHandler := NewUsersHandler(svc)
	swapsHandler := NewSwapsHandler(svc)
	ratingsHandler := NewRatingsHandler(svc)
	adminHandler := NewAdminHandler(svc)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/uploads/{filename}", profileHandler.ServeUpload).Methods("GET")

	// CORS preflight for every path
	r.MatcherFunc(func(req *http.Request, _ *mux.RouteMatch) bool {
		return req.Method == http.MethodOptions
	}).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/register", authHandler.Register).Methods("POST")
	apiRouter.HandleFunc("/login", authHandler.Login).Methods("POST")

	// Authenticated routes
	authenticated := guard.Pipeline{guard.Authenticate(svc.Credentials)}
	user := apiRouter.NewRoute().Subrouter()
	user.Use(GuardMiddleware(authenticated))

	user.HandleFunc("/profile", profileHandler.GetProfile).Methods("GET")
	user.HandleFunc("/profile", profileHandler.UpdateProfile).Methods("PUT")
	user.HandleFunc("/upload-profile-photo", profileHandler.UploadPhoto).Methods("POST")

	user.HandleFunc("/skills/{kind:offered|wanted}", skillsHandler.AddSkill).Methods("POST")
	user.HandleFunc("/skills/{kind:offered|wanted}/{id:[0-9]+}", skillsHandler.RemoveSkill).Methods("DELETE")

	user.HandleFunc("/users/search", usersHandler.Search).Methods("GET")

	user.HandleFunc("/swaps", swapsHandler.CreateSwap).Methods("POST")
	user.HandleFunc("/swaps", swapsHandler.ListSwaps).Methods("GET")
	user.HandleFunc("/swaps/{id:[0-9]+}", swapsHandler.GetSwap).Methods("GET")
	user.HandleFunc("/swaps/{id:[0-9]+}/status", swapsHandler.UpdateStatus).Methods("PUT")
	user.HandleFunc("/swaps/{id:[0-9]+}", swapsHandler.DeleteSwap).Methods("DELETE")

	user.HandleFunc("/ratings", ratingsHandler.AddRating).Methods("POST")
	user.HandleFunc("/messages", adminHandler.ListMessages).Methods("GET")

	// Admin routes
	adminRouter := apiRouter.PathPrefix("/admin").Subrouter()
	adminRouter.Use(GuardMiddleware(authenticated.Then(guard.RequireAdmin(svc.Repo))))

	adminRouter.HandleFunc("/users", adminHandler.ListUsers).Methods("GET")
	adminRouter.HandleFunc("/users/{id:[0-9]+}/ban", adminHandler.BanUser).Methods("PUT")
	adminRouter.HandleFunc("/users/{id:[0-9]+}/admin", adminHandler.SetAdmin).Methods("PUT")
	adminRouter.HandleFunc("/messages", adminHandler.PostMessage).Methods("POST")

	return r
}
