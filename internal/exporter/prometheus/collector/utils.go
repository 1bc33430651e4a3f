// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	invalidChars   = regexp.MustCompile(`[^a-zA-Z0-9_]+`)
	repeatedUnders = regexp.MustCompile(`_{2,}`)
)

// Slug turns a display name like "High SM Density" into a stable
// lower-case identifier ("high_sm_density") usable as a label value or
// metric name fragment
func Slug(name string) string {
	s := invalidChars.ReplaceAllString(strings.ToLower(name), "_")
	s = repeatedUnders.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "_"
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	return s
}

// formatFloat renders a label value with the fewest digits that round trip
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
