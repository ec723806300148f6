package api

import (
	"net/http"
	"time"

	"assetmanager/src/api/controllers"
	"assetmanager/src/api/handlers"
	"assetmanager/src/config"
	"assetmanager/src/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth"
	"github.com/sirupsen/logrus"
)

type Server struct {
	Router    *chi.Mux
	Handler   *handlers.Handler
	TokenAuth *jwtauth.JWTAuth
	cfg       *config.Config
}

func NewServer(cfg *config.Config, logger *logrus.Logger, registry *services.Registry) *Server {
	controller := controllers.NewController(
		registry.Assets,
		registry.Portfolio,
		registry.Users,
		registry.Tokens,
		registry.Export,
	)
	return NewServerWithHandler(cfg, handlers.NewHandler(controller, logger), registry.Tokens.JWTAuth())
}

func NewServerWithHandler(cfg *config.Config, handler *handlers.Handler, tokenAuth *jwtauth.JWTAuth) *Server {
	server := &Server{
		Router:    chi.NewRouter(),
		Handler:   handler,
		TokenAuth: tokenAuth,
		cfg:       cfg,
	}
	server.InitRoutes()
	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) InitRoutes() {
	s.Router.Use(middleware.Recoverer)
	s.Router.Use(s.Handler.RequestLogger)
	s.Router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.Router.Get("/alive", handlers.Healthcheck)
	s.Router.Get("/api/health", handlers.Healthcheck)

	if s.cfg.Service.DevLogin {
		s.Router.Post("/api/auth/dev-login", s.Handler.DevLogin)
	}

	s.Router.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(s.TokenAuth))
		r.Use(s.Handler.Authenticate)

		r.Get("/api/auth/profile", s.Handler.GetProfile)

		r.Route("/api/assets", func(r chi.Router) {
			r.Get("/", s.Handler.ListAssets)
			r.Post("/", s.Handler.CreateAsset)
			r.Post("/validate-symbol", s.Handler.ValidateSymbol)
			r.Get("/{id}", s.Handler.GetAsset)
			r.Put("/{id}", s.Handler.UpdateAsset)
			r.Delete("/{id}", s.Handler.DeleteAsset)
		})

		r.Route("/api/portfolio", func(r chi.Router) {
			r.Get("/", s.Handler.GetPortfolio)
			r.Get("/performance", s.Handler.GetPerformance)
			r.Get("/history", s.Handler.GetHistory)
			r.Get("/export", s.Handler.ExportPortfolio)
		})

		r.Route("/api/users/settings", func(r chi.Router) {
			r.Get("/", s.Handler.GetSettings)
			r.Put("/", s.Handler.UpdateSettings)
		})
	})
}

func NewHTTPServer(server *Server, port string) *http.Server {
	httpServer := &http.Server{
		Addr:         ":" + port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		Handler:      server,
	}
	return httpServer
}
