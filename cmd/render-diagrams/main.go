// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/nexgen-ai/socmodel/internal/diagram"
	"github.com/nexgen-ai/socmodel/internal/logger"
	"github.com/nexgen-ai/socmodel/internal/version"
)

type options struct {
	file      string
	format    string
	outputDir string
	diagram   string
	list      bool
	all       bool
	show      bool
	logLevel  string
	logFormat string
	mmdc      string
}

func parseArgs(args []string) (*options, error) {
	app := kingpin.New("render-diagrams", "Render the mermaid diagrams of a markdown file with the mermaid CLI.")
	app.Version(version.Info().String())

	formats := make([]string, 0, len(diagram.Formats()))
	for _, f := range diagram.Formats() {
		formats = append(formats, string(f))
	}

	o := &options{}
	app.Flag("file", "Markdown file containing mermaid diagrams").Default("architecture/block_diagrams.md").StringVar(&o.file)
	app.Flag("format", "Output format: "+strings.Join(formats, ", ")).Default(string(diagram.PNG)).EnumVar(&o.format, formats...)
	app.Flag("output-dir", "Directory for rendered diagrams").Default("outputs/diagrams").StringVar(&o.outputDir)
	app.Flag("diagram", "Render only the diagrams whose name contains this text (see --list)").StringVar(&o.diagram)
	app.Flag("list", "List the diagrams found in the file").BoolVar(&o.list)
	app.Flag("all", "Render all diagrams").BoolVar(&o.all)
	app.Flag("show", "Display rendered images in the terminal or default viewer").BoolVar(&o.show)
	app.Flag("mmdc", "Mermaid CLI executable").Default(diagram.DefaultBinary).StringVar(&o.mmdc)
	app.Flag("log.level", "Logging level: debug, info, warn, error").Default("info").EnumVar(&o.logLevel, "debug", "info", "warn", "error")
	app.Flag("log.format", "Logging format: text or json").Default("text").EnumVar(&o.logFormat, "text", "json")

	if _, err := app.Parse(args); err != nil {
		return nil, err
	}
	return o, nil
}

func main() {
	o, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(o.logLevel, o.logFormat, os.Stderr)
	if err := run(context.Background(), o, os.Stdout, log); err != nil {
		log.Error("Failed to render diagrams", "error", err)
		if errors.Is(err, diagram.ErrToolNotFound) {
			log.Info("Install the mermaid CLI with: npm install -g @mermaid-js/mermaid-cli")
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, o *options, out io.Writer, log *slog.Logger) error {
	r := diagram.NewRenderer(diagram.WithBinary(o.mmdc), diagram.WithLogger(log))
	if err := r.Available(ctx); err != nil {
		return err
	}

	ds, err := diagram.ExtractFile(o.file)
	if err != nil {
		return err
	}

	if o.list {
		fmt.Fprintf(out, "Found %d diagram(s) in %s:\n\n", len(ds), o.file)
		for i, d := range ds {
			fmt.Fprintf(out, "  %d. %s (%d lines)\n", i+1, d.Name, d.Lines())
		}
		return nil
	}

	format, err := diagram.ParseFormat(o.format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(o.outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// everything is rendered unless --diagram narrows it; --all only states it
	if o.diagram != "" {
		if ds, err = diagram.Filter(ds, o.diagram); err != nil {
			return err
		}
	}

	var rendered []string
	var failed int
	for _, d := range ds {
		path, err := r.Render(ctx, d, o.outputDir, format)
		if err != nil {
			log.Error("Failed to render diagram", "diagram", d.Name, "error", err)
			fmt.Fprintf(out, "Rendering %s... ✗ Failed\n", d.Name)
			failed++
			continue
		}
		fmt.Fprintf(out, "Rendering %s... ✓ Saved to %s\n", d.Name, path)
		rendered = append(rendered, path)
	}

	if o.show && len(rendered) > 0 {
		fmt.Fprintln(out, "\nDisplaying rendered diagrams...")
		for _, path := range rendered {
			if err := diagram.Display(ctx, path); err != nil {
				log.Warn("Failed to display diagram", "path", path, "error", err)
			}
		}
	}

	fmt.Fprintf(out, "\n✓ Rendered %d diagram(s) to %s/\n", len(rendered), o.outputDir)
	if failed > 0 {
		return fmt.Errorf("%d of %d diagram(s) failed to render", failed, len(ds))
	}
	return nil
}
