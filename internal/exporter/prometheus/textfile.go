// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

package prometheus

import (
	"fmt"
	"maps"
	"slices"

	prom "github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile gathers the collectors once and writes them to path in the
// text exposition format. The file is replaced atomically, so it can be
// picked up by node_exporter's textfile collector.
func WriteTextfile(path string, cs map[string]prom.Collector) error {
	reg := prom.NewRegistry()
	for _, name := range slices.Sorted(maps.Keys(cs)) {
		if err := reg.Register(cs[name]); err != nil {
			return fmt.Errorf("registering %s collector: %w", name, err)
		}
	}
	if err := prom.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
