// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	"fmt"

	"github.com/nexgen-ai/socmodel/internal/plot"
	"github.com/nexgen-ai/socmodel/internal/report"
	"github.com/nexgen-ai/socmodel/internal/sweep"
)

// Sensitivity sweeps each configured parameter around the SoC and reports
// how strongly compute density responds. It returns the files it wrote.
func (a *Analyzer) Sensitivity() ([]string, error) {
	if err := a.prepareOutputDir(); err != nil {
		return nil, err
	}

	report.Heading(a.out, "NexGen-AI SoC Sensitivity Analysis")
	report.Baseline(a.out, a.soc)

	a.logger.Debug("Running sweeps", "parameters", len(a.opts.analyses))
	results, err := sweep.Analyze(a.soc, a.opts.coefficients, a.opts.analyses)
	if err != nil {
		return nil, fmt.Errorf("failed to run sensitivity sweeps: %w", err)
	}
	for _, r := range results {
		if !r.Defined {
			a.logger.Warn("Sensitivity is undefined for sweep", "parameter", r.Parameter)
		}
	}

	report.Heading(a.out, "SENSITIVITY ANALYSIS")
	report.Sensitivity(a.out, results)

	var written artifacts
	if a.opts.plots {
		path := a.path(SensitivityPlot)
		if err := plot.Sensitivity(path, results, a.opts.targets.DensityTFLOPSPerMM2); err != nil {
			return nil, err
		}
		written.add(a.logger, "plot", path)
	}

	if a.opts.csv {
		for _, r := range results {
			path := a.path(SensitivityCSV(r.Parameter))
			if err := report.WriteCSV(path, r.Samples()); err != nil {
				return nil, err
			}
			written.add(a.logger, "csv", path)
		}
	}

	return written, nil
}
