// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/oklog/run"
)

// Init initializes services in order. On the first failure the services
// already initialized are shut down and the error is returned.
func Init(logger *slog.Logger, services []Service) error {
	logger = orDefault(logger)

	var done []Service
	for _, s := range services {
		in, ok := s.(Initializer)
		if !ok {
			continue
		}

		logger.Info("Initializing service", "service", s.Name())
		if err := in.Init(); err != nil {
			shutdown(logger, done)
			return fmt.Errorf("failed to initialize service %s: %w", s.Name(), err)
		}
		done = append(done, s)
	}
	return nil
}

// Run starts every Runner in an oklog run group. The group ends when the
// first runner returns; all runners are then interrupted and shut down.
func Run(outer context.Context, logger *slog.Logger, services []Service) error {
	logger = orDefault(logger)

	ctx, cancel := context.WithCancel(outer)
	defer cancel()

	var g run.Group
	for _, s := range services {
		r, ok := s.(Runner)
		if !ok {
			logger.Debug("Not a runner", "service", s.Name())
			continue
		}

		svc := s
		g.Add(
			func() error {
				logger.Info("Running service", "service", svc.Name())
				return r.Run(ctx)
			},
			func(err error) {
				cancel()
				if err != nil {
					logger.Warn("Service terminated", "service", svc.Name(), "reason", err)
				}
				shutdown(logger, []Service{svc})
			},
		)
	}

	return g.Run()
}

func shutdown(logger *slog.Logger, services []Service) {
	for _, s := range services {
		sd, ok := s.(Shutdowner)
		if !ok {
			continue
		}
		logger.Info("Shutting down", "service", s.Name())
		if err := sd.Shutdown(); err != nil {
			logger.Warn("Shutdown failed", "service", s.Name(), "error", err)
		}
	}
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
