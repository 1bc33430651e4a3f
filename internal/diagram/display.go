// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

package diagram

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// cmdRunner finds and runs external viewers
type cmdRunner interface {
	LookPath(name string) (string, error)
	Run(ctx context.Context, name string, args ...string) error
}

// execRunner implements cmdRunner using os/exec
type execRunner struct{}

func (execRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (execRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Display shows the image at path in the terminal with imgcat or chafa, or
// falls back to the platform's default viewer
func Display(ctx context.Context, path string) error {
	return display(ctx, execRunner{}, runtime.GOOS, path)
}

func opener(goos string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", nil
	case "windows":
		return "cmd", []string{"/c", "start", ""}
	default:
		return "xdg-open", nil
	}
}

func display(ctx context.Context, runner cmdRunner, goos, path string) error {
	for _, viewer := range []string{"imgcat", "chafa"} {
		if _, err := runner.LookPath(viewer); err == nil {
			return runner.Run(ctx, viewer, path)
		}
	}

	name, args := opener(goos)
	if _, err := runner.LookPath(name); err != nil {
		return fmt.Errorf("%w: no image viewer available", ErrToolNotFound)
	}
	return runner.Run(ctx, name, append(args, path)...)
}
