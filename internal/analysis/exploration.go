// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	"fmt"

	"github.com/nexgen-ai/socmodel/internal/explore"
	"github.com/nexgen-ai/socmodel/internal/plot"
	"github.com/nexgen-ai/socmodel/internal/report"
)

// Exploration compares the architecture variants against the targets and
// recommends the densest one within the power budget. It returns the files
// it wrote.
func (a *Analyzer) Exploration() ([]string, error) {
	if err := a.prepareOutputDir(); err != nil {
		return nil, err
	}

	report.Heading(a.out, "NexGen-AI SoC Architecture Exploration")

	a.logger.Debug("Comparing variants", "variants", len(a.opts.variants))
	evals, err := explore.NewComparator(
		explore.WithTargets(a.opts.targets),
		explore.WithCoefficients(a.opts.coefficients),
	).Compare(a.opts.variants)
	if err != nil {
		return nil, fmt.Errorf("failed to compare variants: %w", err)
	}

	report.Heading(a.out, "ARCHITECTURE VARIANT COMPARISON")
	report.Variants(a.out, evals)

	report.Heading(a.out, "DETAILED ANALYSIS")
	report.Details(a.out, evals)

	report.Heading(a.out, "RECOMMENDATIONS")
	rec := explore.Recommend(evals)
	report.Recommendation(a.out, rec, a.opts.targets)
	if rec.Best != nil {
		a.logger.Info("Recommended variant", "variant", rec.Best.Name, "density", rec.Best.Density)
	}

	var written artifacts
	if a.opts.plots {
		path := a.path(ComparisonPlot)
		if err := plot.Comparison(path, evals, a.opts.targets); err != nil {
			return nil, err
		}
		written.add(a.logger, "plot", path)
	}

	if a.opts.csv {
		path := a.path(VariantsCSV)
		if err := report.WriteCSV(path, evals); err != nil {
			return nil, err
		}
		written.add(a.logger, "csv", path)
	}

	return written, nil
}
