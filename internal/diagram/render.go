// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

package diagram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// DefaultBinary is the mermaid CLI executable
const DefaultBinary = "mmdc"

// Format is an output format supported by the mermaid CLI
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
	PDF Format = "pdf"
)

// Formats returns every supported format
func Formats() []Format {
	return []Format{PNG, SVG, PDF}
}

// ParseFormat parses a case-insensitive format name
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case PNG, SVG, PDF:
		return f, nil
	}
	return "", fmt.Errorf("unsupported format %q", s)
}

// Renderer runs the mermaid CLI
type Renderer struct {
	Binary string
	logger *slog.Logger
}

type OptionFn func(*Renderer)

func WithBinary(path string) OptionFn {
	return func(r *Renderer) {
		r.Binary = path
	}
}

func WithLogger(logger *slog.Logger) OptionFn {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// NewRenderer returns a Renderer for mmdc on PATH
func NewRenderer(applyOpts ...OptionFn) *Renderer {
	r := &Renderer{
		Binary: DefaultBinary,
		logger: slog.Default(),
	}
	for _, apply := range applyOpts {
		apply(r)
	}
	r.logger = r.logger.With("service", "diagram")
	return r
}

// Available checks that the CLI can be found and runs
func (r *Renderer) Available(ctx context.Context) error {
	path, err := exec.LookPath(r.Binary)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrToolNotFound, r.Binary, err)
	}
	out, err := exec.CommandContext(ctx, path, "--version").CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s --version: %v", ErrToolNotFound, r.Binary, err)
	}
	r.logger.Debug("Found mermaid CLI", "path", path, "version", strings.TrimSpace(string(out)))
	return nil
}

// Render writes d to outDir/<name>.<format> and returns the output path. The
// mermaid source goes through a temporary .mmd file that is always removed.
func (r *Renderer) Render(ctx context.Context, d Diagram, outDir string, format Format) (string, error) {
	output := filepath.Join(outDir, d.Name+"."+string(format))

	tmp, err := os.CreateTemp(outDir, d.Name+"-*.mmd")
	if err != nil {
		return "", fmt.Errorf("failed to create mermaid source for %s: %w", d.Name, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.WriteString(d.Code); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write mermaid source for %s: %w", d.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write mermaid source for %s: %w", d.Name, err)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Binary, "-i", tmp.Name(), "-o", output, "-e", string(format))
	cmd.Stderr = &stderr
	r.logger.Debug("Rendering diagram", "diagram", d.Name, "output", output)
	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrToolNotFound, r.Binary)
		}
		return "", fmt.Errorf("failed to render %s: %w: %s", d.Name, err, strings.TrimSpace(stderr.String()))
	}
	return output, nil
}
