package app

import (
	"fmt"
	"io"

	"grayscope/internal/config"
	"grayscope/internal/logger"
	"grayscope/internal/opencv/memory"
	"grayscope/internal/pipeline"
	"grayscope/internal/processing/filters"
)

// Services is the headless core shared by the window and the command line.
type Services struct {
	Config      config.Config
	Logger      logger.Logger
	Memory      *memory.Manager
	Registry    *filters.Registry
	Coordinator *pipeline.Coordinator
}

// NewServices builds the logger, memory accounting, filter menu and
// coordinator from cfg. Log output goes to w.
func NewServices(cfg config.Config, w io.Writer) (*Services, error) {
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}
	log := logger.New(w, level, cfg.Log.JSON)

	memMgr := memory.NewManager(log)
	registry := filters.NewRegistry(log)
	coordinator := pipeline.NewCoordinator(registry, memMgr, log, cfg.FilterParams())

	return &Services{
		Config:      cfg,
		Logger:      log,
		Memory:      memMgr,
		Registry:    registry,
		Coordinator: coordinator,
	}, nil
}

// Close releases the coordinator's Mats and reports any that leaked.
func (s *Services) Close() {
	s.Coordinator.Cleanup()
	s.Memory.Cleanup()
}
