// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kingpin/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"k8s.io/utils/ptr"

	"github.com/nexgen-ai/socmodel/internal/arch"
	"github.com/nexgen-ai/socmodel/internal/explore"
	"github.com/nexgen-ai/socmodel/internal/power"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "outputs", cfg.Output.Dir)
	assert.True(t, *cfg.Output.Plots)
	assert.True(t, *cfg.Output.CSV)
	assert.True(t, *cfg.Output.Metrics)
	assert.Equal(t, 2.0, cfg.Targets.DensityTFLOPSPerMM2)
	assert.Equal(t, 500.0, cfg.Targets.PowerWatts)
	assert.Equal(t, 1500.0, cfg.Power.SMDynamicMilliwatts)
	assert.Equal(t, 15.0, cfg.Power.HBMStackWatts)
	assert.Equal(t, []int{2, 4, 6, 8}, cfg.Analysis.ChipletCounts)
	assert.Equal(t, MetricsLevelAll, cfg.Exporter.Prometheus.MetricsLevel)
	assert.Equal(t, []string{DefaultPort}, cfg.Web.ListenAddresses)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromYAML(t *testing.T) {
	yamlData := `
log:
  level: debug
  format: json
output:
  dir: /tmp/socmodel
  plots: false
targets:
  powerWatts: 400
power:
  hbmStackWatts: 12.5
  utilizations: [1.0, 0.25]
`
	cfg, err := Load(strings.NewReader(yamlData))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/tmp/socmodel", cfg.Output.Dir)
	assert.False(t, *cfg.Output.Plots)
	assert.True(t, *cfg.Output.CSV, "unset toggles keep their default")
	assert.Equal(t, 400.0, cfg.Targets.PowerWatts)
	assert.Equal(t, 2.0, cfg.Targets.DensityTFLOPSPerMM2)
	assert.Equal(t, 12.5, cfg.Power.HBMStackWatts)
	assert.Equal(t, []float64{1.0, 0.25}, cfg.Power.Utilizations)
}

func TestLoadEmptyFromYAML(t *testing.T) {
	cfg, err := Load(strings.NewReader(``))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().String(), cfg.String())
}

func TestLoadInvalidConfigFromYAML(t *testing.T) {
	yamlData := `
log:
  level: FATAL
  format: json
`
	cfg, err := Load(strings.NewReader(yamlData))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Nil(t, cfg)
}

func TestInvalidYAML(t *testing.T) {
	cfg, err := Load(strings.NewReader("log: [unterminated"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
	assert.Nil(t, cfg)
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "socmodel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o600))

	cfg, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)

	_, err = FromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open config file")
}

func TestFromFiles(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.yaml")
	override := filepath.Join(dir, "override.yaml")
	require.NoError(t, os.WriteFile(base, []byte(`
log:
  level: debug
targets:
  powerWatts: 450
`), 0o600))
	require.NoError(t, os.WriteFile(override, []byte(`
targets:
  powerWatts: 600
output:
  metrics: false
`), 0o600))

	cfg, err := FromFiles(base, override)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 600.0, cfg.Targets.PowerWatts)
	assert.False(t, *cfg.Output.Metrics)
	assert.True(t, *cfg.Output.Plots)

	missing := filepath.Join(dir, "missing.yaml")
	_, err = FromFiles(base, missing)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), missing)
}

func TestCommandLinePrecedence(t *testing.T) {
	yamlData := `
output:
  csv: false
  plots: false
targets:
  powerWatts: 400
`
	cfg, err := Load(strings.NewReader(yamlData))
	require.NoError(t, err)

	app := kingpin.New("test", "Test application")
	updateConfig := RegisterFlags(app)

	_, err = app.Parse([]string{
		"--output.csv",
		"--target.density=0.5",
		"--analysis.chiplets=2",
		"--analysis.chiplets=16",
		"--metrics=variant",
	})
	require.NoError(t, err)
	require.NoError(t, updateConfig(cfg))

	assert.True(t, *cfg.Output.CSV, "csv should be enabled from flag")
	assert.False(t, *cfg.Output.Plots, "plots should remain disabled from yaml")
	assert.Equal(t, 0.5, cfg.Targets.DensityTFLOPSPerMM2)
	assert.Equal(t, 400.0, cfg.Targets.PowerWatts, "unset flag must not reset yaml value")
	assert.Equal(t, []int{2, 16}, cfg.Analysis.ChipletCounts)
	assert.Equal(t, MetricsLevelVariant, cfg.Exporter.Prometheus.MetricsLevel)
}

func TestCommandLineValidation(t *testing.T) {
	app := kingpin.New("test", "Test application")
	updateConfig := RegisterFlags(app)

	_, err := app.Parse([]string{"--target.power=-1"})
	require.NoError(t, err)

	err = updateConfig(DefaultConfig())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid power target")
}

func TestCommandLineDuplicatePrecision(t *testing.T) {
	app := kingpin.New("test", "Test application")
	updateConfig := RegisterFlags(app)

	_, err := app.Parse([]string{"--analysis.precision=fp16", "--analysis.precision=FP16"})
	require.NoError(t, err)

	err = updateConfig(DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate analysis precision: FP16")
}

func TestWhitespaceHandling(t *testing.T) {
	yamlData := `
log:
  level: "  debug  "
  format: "  text  "
output:
  dir: "  out  "
analysis:
  precisions: [" fp8 ", "int8"]
web:
  listenAddresses: [" :9000 "]
`
	cfg, err := Load(strings.NewReader(yamlData))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.Equal(t, []string{"FP8", "INT8"}, cfg.Analysis.Precisions)
	assert.Equal(t, []string{":9000"}, cfg.Web.ListenAddresses)
}

func TestInvalidConfigurationValues(t *testing.T) {
	tt := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{{
		name:   "invalid log format",
		mutate: func(c *Config) { c.Log.Format = "xml" },
		errMsg: "invalid log format",
	}, {
		name:   "empty output dir",
		mutate: func(c *Config) { c.Output.Dir = "" },
		errMsg: "output dir cannot be empty",
	}, {
		name:   "zero density target",
		mutate: func(c *Config) { c.Targets.DensityTFLOPSPerMM2 = 0 },
		errMsg: "invalid density target",
	}, {
		name:   "negative coefficient",
		mutate: func(c *Config) { c.Power.IOWatts = -1 },
		errMsg: "invalid power coefficient ioWatts",
	}, {
		name:   "utilization above one",
		mutate: func(c *Config) { c.Power.Utilizations = []float64{1.5} },
		errMsg: "invalid utilization",
	}, {
		name:   "repeated utilization",
		mutate: func(c *Config) { c.Power.Utilizations = []float64{0.5, 1, 0.5} },
		errMsg: "duplicate utilization: 0.5",
	}, {
		name:   "negative theta",
		mutate: func(c *Config) { c.Thermal.ThetaJA = -0.1 },
		errMsg: "invalid thermal resistance",
	}, {
		name:   "unknown precision",
		mutate: func(c *Config) { c.Analysis.Precisions = []string{"FP64"} },
		errMsg: "invalid analysis precision",
	}, {
		name:   "zero chiplets",
		mutate: func(c *Config) { c.Analysis.ChipletCounts = []int{0} },
		errMsg: "invalid chiplet count",
	}, {
		name:   "repeated precision",
		mutate: func(c *Config) { c.Analysis.Precisions = []string{"FP16", "INT8", "FP16"} },
		errMsg: "duplicate analysis precision: FP16",
	}, {
		name:   "repeated chiplet count",
		mutate: func(c *Config) { c.Analysis.ChipletCounts = []int{4, 8, 4} },
		errMsg: "duplicate chiplet count: 4",
	}, {
		name:   "zero stacks per chiplet",
		mutate: func(c *Config) { c.Analysis.StacksPerChiplet = 0 },
		errMsg: "invalid stacks per chiplet",
	}, {
		name:   "unknown debug collector",
		mutate: func(c *Config) { c.Exporter.Prometheus.DebugCollectors = []string{"gpu"} },
		errMsg: "invalid debug collector",
	}, {
		name:   "no listen address",
		mutate: func(c *Config) { c.Web.ListenAddresses = nil },
		errMsg: "at least one web listen address",
	}, {
		name:   "bad port",
		mutate: func(c *Config) { c.Web.ListenAddresses = []string{":99999"} },
		errMsg: "port must be between 1 and 65535",
	}, {
		name:   "missing web config file",
		mutate: func(c *Config) { c.Web.Config = "/does/not/exist.yaml" },
		errMsg: "invalid web config file",
	}}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestValidationAggregatesErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = "loud"
	cfg.Targets.PowerWatts = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level: loud")
	assert.Contains(t, err.Error(), "invalid power target")
}

func TestValidateWithSkip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Web.ListenAddresses = []string{"not-an-address"}

	assert.Error(t, cfg.Validate())
	assert.NoError(t, cfg.Validate(SkipWebValidation))
}

func TestConfigString(t *testing.T) {
	cfg := DefaultConfig()
	s := cfg.String()

	assert.Contains(t, s, "log:")
	assert.Contains(t, s, "densityTFLOPSPerMM2: 2")
	assert.Contains(t, s, "smDynamicMilliwatts: 1500")

	// round trip through yaml keeps the values
	var parsed Config
	require.NoError(t, yaml.Unmarshal([]byte(s), &parsed))
	assert.Equal(t, cfg.Targets, parsed.Targets)
	assert.Equal(t, cfg.Exporter.Prometheus.MetricsLevel, parsed.Exporter.Prometheus.MetricsLevel)

	manual := cfg.manualString()
	assert.Contains(t, manual, "log.level: info")
	assert.Contains(t, manual, "output.plots: true")
	assert.Contains(t, manual, "metrics: performance,power,scaling,variant")
}

func TestCoefficients(t *testing.T) {
	assert.Equal(t, power.DefaultCoefficients(), DefaultConfig().Coefficients())

	cfg := DefaultConfig()
	cfg.Power.SMDynamicMilliwatts = 2000
	cfg.Thermal.AmbientCelsius = 35
	c := cfg.Coefficients()
	assert.Equal(t, 2.0, c.SMDynamic.Watts())
	assert.Equal(t, 35.0, c.AmbientCelsius)
}

func TestExploreTargets(t *testing.T) {
	assert.Equal(t, explore.DefaultTargets(), DefaultConfig().ExploreTargets())
}

func TestAnalysisPrecisions(t *testing.T) {
	ps, err := DefaultConfig().AnalysisPrecisions()
	require.NoError(t, err)
	assert.Equal(t, []arch.Precision{arch.FP16, arch.FP8, arch.INT8}, ps)

	cfg := DefaultConfig()
	cfg.Analysis.Precisions = []string{"FP16", "FP64"}
	_, err = cfg.AnalysisPrecisions()
	assert.ErrorIs(t, err, arch.ErrUnknownPrecision)
}

func TestBuilder(t *testing.T) {
	t.Run("Build", func(t *testing.T) {
		got, err := (&Builder{}).Build()
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig().String(), got.String())
	})

	t.Run("Use", func(t *testing.T) {
		exp := DefaultConfig()
		exp.Log.Level = "warn"

		got, err := (&Builder{}).Use(exp).Build()
		require.NoError(t, err)
		assert.Equal(t, exp.String(), got.String())
	})

	t.Run("MergeWithInvalidYAML", func(t *testing.T) {
		cfg, err := (&Builder{}).Merge(`invalid yaml: [invalid`).Build()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse YAML")
		assert.Nil(t, cfg)
	})

	t.Run("UnknownKeyNamesItsSource", func(t *testing.T) {
		cfg, err := (&Builder{}).Merge(`
log:
  level: debug
`, `
targets:
  powerWats: 400
`).Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse YAML in document 2")
		assert.Contains(t, err.Error(), "powerWats")
		assert.Nil(t, cfg)
	})

	t.Run("MergeFiles", func(t *testing.T) {
		dir := t.TempDir()
		good := filepath.Join(dir, "good.yaml")
		bad := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(good, []byte("thermal:\n  ambientCelsius: 30\n"), 0o600))
		require.NoError(t, os.WriteFile(bad, []byte("thermal: [oops"), 0o600))

		cfg, err := (&Builder{}).MergeFiles(good).Build()
		require.NoError(t, err)
		assert.Equal(t, 30.0, cfg.Thermal.AmbientCelsius)

		_, err = (&Builder{}).MergeFiles(good, bad).Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse YAML in "+bad)
	})

	t.Run("EmptyDocument", func(t *testing.T) {
		cfg, err := (&Builder{}).Merge("").Build()
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig().String(), cfg.String())
	})

	t.Run("MultipleMerges", func(t *testing.T) {
		cfg, err := (&Builder{}).
			Merge(`
log:
  level: debug
`, `
thermal:
  ambientCelsius: 40
`, `
log:
  level: info
`).
			Build()
		require.NoError(t, err)

		exp := DefaultConfig()
		exp.Thermal.AmbientCelsius = 40
		assert.Equal(t, exp.String(), cfg.String())
	})

	t.Run("MergeFalseToggle", func(t *testing.T) {
		cfg, err := (&Builder{}).Merge(`
output:
  plots: false
`).Build()
		require.NoError(t, err)

		exp := DefaultConfig()
		exp.Output.Plots = ptr.To(false)
		assert.Equal(t, exp.String(), cfg.String())
	})

	t.Run("MergeArrays", func(t *testing.T) {
		cfg, err := (&Builder{}).Merge(`
exporter:
  prometheus:
    debugCollectors: ["go", "process"]
analysis:
  chipletCounts: [1, 2]
`).Build()
		require.NoError(t, err)

		exp := DefaultConfig()
		exp.Exporter.Prometheus.DebugCollectors = []string{"go", "process"}
		exp.Analysis.ChipletCounts = []int{1, 2}
		assert.Equal(t, exp.String(), cfg.String())
	})
}
