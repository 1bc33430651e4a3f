// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

// Package service drives the lifecycle of the long running parts of the
// model server.
package service

import "context"

// Service is anything with a name that takes part in the lifecycle
type Service interface {
	Name() string
}

// Initializer is prepared once before anything runs
type Initializer interface {
	Service
	Init() error
}

// Runner blocks in Run until ctx is done or it fails
type Runner interface {
	Service
	Run(ctx context.Context) error
}

// Shutdowner releases what Init or Run acquired
type Shutdowner interface {
	Service
	Shutdown() error
}
