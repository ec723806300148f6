package worker

import (
	"net/http"
	"time"

	"assetmanager/src/config"
	"assetmanager/src/services"
	"assetmanager/src/worker/controllers"
	"assetmanager/src/worker/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

type Server struct {
	Router     *chi.Mux
	Handler    *handlers.Handler
	Controller *controllers.Controller
}

// NewServer builds the worker HTTP surface and installs the daily snapshot schedule.
func NewServer(cfg *config.Config, logger *logrus.Logger, registry *services.Registry) (*Server, error) {
	controller := controllers.NewController(registry.SnapshotJob, logger)
	if err := controller.ScheduleSnapshots(cfg.Worker.SnapshotCron); err != nil {
		return nil, err
	}

	server := &Server{
		Router:     chi.NewRouter(),
		Handler:    handlers.NewHandler(controller, logger),
		Controller: controller,
	}
	server.InitRoutes()
	return server, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) InitRoutes() {
	s.Router.Use(middleware.Recoverer)
	s.Router.Get("/alive", handlers.Healthcheck)
	s.Router.Route("/api/snapshots", func(r chi.Router) {
		r.Post("/run", s.Handler.RunSnapshots)
	})
}

// Close stops the snapshot schedule.
func (s *Server) Close() {
	s.Controller.StopSnapshots()
}

func NewHTTPServer(server *Server, port string) *http.Server {
	httpServer := &http.Server{
		Addr:         ":" + port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 6 * time.Minute,
		Handler:      server,
	}
	return httpServer
}
