package main

import (
	"time"

	"github.com/Shubham-NM01/doc-uploader/internal/api"
	"github.com/Shubham-NM01/doc-uploader/internal/config"
	"github.com/Shubham-NM01/doc-uploader/internal/infrastructure"
	"github.com/Shubham-NM01/doc-uploader/internal/server"
)

// Server coordinates the lifecycle of all subsystems.
type Server struct {
	infra  *infrastructure.Infrastructure
	domain *api.Domain
	http   server.System
}

// NewServer creates and initializes the service with all subsystems.
func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	runtime := api.NewRuntime(cfg, infra)
	domain, err := api.NewDomain(cfg, runtime)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(cfg, runtime, domain)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra.Lifecycle)
	modules.Mount(router)

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
	)

	return &Server{
		infra:  infra,
		domain: domain,
		http:   server.New(&cfg.Server, router, infra.Logger),
	}, nil
}

// Start begins all subsystems and returns once the listener is bound.
func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.domain.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

// Shutdown gracefully stops all subsystems within timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
