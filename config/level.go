// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"strings"
)

// Level selects which groups of model metrics are exported, as a bit set
type Level uint32

const (
	MetricsLevelPerformance Level = 1 << iota // 1
	MetricsLevelPower                         // 2
	MetricsLevelScaling                       // 4
	MetricsLevelVariant                       // 8

	MetricsLevelAll = MetricsLevelPerformance | MetricsLevelPower | MetricsLevelScaling | MetricsLevelVariant
)

var levelNames = []struct {
	level Level
	name  string
}{
	{MetricsLevelPerformance, "performance"},
	{MetricsLevelPower, "power"},
	{MetricsLevelScaling, "scaling"},
	{MetricsLevelVariant, "variant"},
}

func (l Level) names() []string {
	var out []string
	for _, n := range levelNames {
		if l&n.level != 0 {
			out = append(out, n.name)
		}
	}
	return out
}

// String returns the comma separated group names
func (l Level) String() string {
	return strings.Join(l.names(), ",")
}

func (l Level) IsPerformanceEnabled() bool {
	return l&MetricsLevelPerformance != 0
}

func (l Level) IsPowerEnabled() bool {
	return l&MetricsLevelPower != 0
}

func (l Level) IsScalingEnabled() bool {
	return l&MetricsLevelScaling != 0
}

func (l Level) IsVariantEnabled() bool {
	return l&MetricsLevelVariant != 0
}

// ParseLevel parses a slice of group names into a Level; an empty slice
// means all groups
func ParseLevel(levels []string) (Level, error) {
	if len(levels) == 0 {
		return MetricsLevelAll, nil
	}

	var result Level
	for _, level := range levels {
		name := strings.ToLower(strings.TrimSpace(level))
		found := false
		for _, n := range levelNames {
			if n.name == name {
				result |= n.level
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown metrics level: %s", level)
		}
	}

	return result, nil
}

// ValidLevels returns the list of valid metrics levels
func ValidLevels() []string {
	return MetricsLevelAll.names()
}

// MarshalYAML implements yaml.Marshaler interface
func (l Level) MarshalYAML() (interface{}, error) {
	levels := l.names()
	if len(levels) == 1 {
		return levels[0], nil
	}
	return levels, nil
}

// UnmarshalYAML implements yaml.Unmarshaler interface
func (l *Level) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var single string
	if err := unmarshal(&single); err == nil {
		parsed, parseErr := ParseLevel([]string{single})
		if parseErr != nil {
			return parseErr
		}
		*l = parsed
		return nil
	}

	var multiple []string
	if err := unmarshal(&multiple); err == nil {
		parsed, parseErr := ParseLevel(multiple)
		if parseErr != nil {
			return parseErr
		}
		*l = parsed
		return nil
	}

	return fmt.Errorf("cannot unmarshal metrics level: must be a string or array of strings")
}
