// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

// Package diagram extracts mermaid diagrams from markdown and renders them
// with the mermaid CLI.
package diagram

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

var (
	ErrToolNotFound = errors.New("tool not found")
	ErrNoDiagrams   = errors.New("no mermaid diagrams found")
	ErrNotFound     = errors.New("diagram not found")
)

var (
	blockPattern   = regexp.MustCompile("(?s)```mermaid\\s*(.*?)```")
	headingPattern = regexp.MustCompile(`(?m)^###?\s+(.+?)$`)
	specialChars   = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	separators     = regexp.MustCompile(`[-\s]+`)
)

// Diagram is one fenced mermaid block
type Diagram struct {
	Name string
	Code string
}

// Lines is the number of lines of mermaid source
func (d Diagram) Lines() int {
	return len(strings.Split(d.Code, "\n"))
}

// Extract returns the mermaid blocks of a markdown document in order. Each is
// named after the closest preceding level 2 or 3 heading, or diagram_<n>
// when none precedes it.
func Extract(r io.Reader) ([]Diagram, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	content := string(data)

	var out []Diagram
	for i, m := range blockPattern.FindAllStringSubmatchIndex(content, -1) {
		code := strings.TrimSpace(content[m[2]:m[3]])

		name := fmt.Sprintf("diagram_%d", i+1)
		if hs := headingPattern.FindAllStringSubmatch(content[:m[0]], -1); len(hs) > 0 {
			name = slug(hs[len(hs)-1][1])
		}
		out = append(out, Diagram{Name: name, Code: code})
	}
	return out, nil
}

// ExtractFile runs Extract on the file at path. A document without any
// mermaid block is an error.
func ExtractFile(path string) ([]Diagram, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open markdown file: %w", err)
	}
	defer func() { _ = f.Close() }()

	ds, err := Extract(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(ds) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoDiagrams, path)
	}
	return ds, nil
}

// Filter keeps the diagrams whose name contains name, ignoring case
func Filter(ds []Diagram, name string) ([]Diagram, error) {
	want := strings.ToLower(name)
	var out []Diagram
	for _, d := range ds {
		if strings.Contains(strings.ToLower(d.Name), want) {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return out, nil
}

func slug(heading string) string {
	s := strings.ToLower(strings.TrimSpace(heading))
	s = specialChars.ReplaceAllString(s, "")
	s = separators.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}
