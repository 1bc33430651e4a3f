// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// layer is one YAML document and where it came from
type layer struct {
	source string
	data   []byte
	err    error
}

// Builder layers YAML documents over a base configuration. Unknown keys are
// rejected so a misspelled setting does not silently keep its default.
type Builder struct {
	layers []layer
	Config *Config
}

// Use sets the base configuration; DefaultConfig is used when unset
func (b *Builder) Use(c *Config) *Builder {
	b.Config = c
	return b
}

// Merge queues inline YAML documents to be merged in order
func (b *Builder) Merge(yamls ...string) *Builder {
	for _, y := range yamls {
		b.layers = append(b.layers, layer{
			source: fmt.Sprintf("document %d", len(b.layers)+1),
			data:   []byte(y),
		})
	}
	return b
}

// MergeFiles queues config files to be merged in order. Read errors are
// reported by Build together with the other layer errors.
func (b *Builder) MergeFiles(paths ...string) *Builder {
	for _, p := range paths {
		data, err := os.ReadFile(p)
		b.layers = append(b.layers, layer{source: p, data: data, err: err})
	}
	return b
}

// Build merges every queued layer into the base. Zero values in a layer
// leave the base untouched, except for explicit booleans.
func (b *Builder) Build() (*Config, error) {
	if b.Config == nil {
		b.Config = DefaultConfig()
	}

	var errs error
	for _, l := range b.layers {
		if l.err != nil {
			errs = errors.Join(errs, fmt.Errorf("failed to read config %s: %w", l.source, l.err))
			continue
		}

		parsed, err := decodeStrict(l.data)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("failed to parse YAML in %s: %w", l.source, err))
			continue
		}

		if err := mergo.Merge(b.Config, parsed, mergo.WithOverride, mergo.WithTransformers(boolPtrTransformer{})); err != nil {
			errs = errors.Join(errs, fmt.Errorf("failed to merge %s: %w", l.source, err))
		}
	}

	if errs != nil {
		return nil, errs
	}
	return b.Config, nil
}

func decodeStrict(data []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return cfg, nil
}

// boolPtrTransformer lets an explicit `false` override a `true` base
type boolPtrTransformer struct{}

func (t boolPtrTransformer) Transformer(typ reflect.Type) func(dst, src reflect.Value) error {
	if typ != reflect.TypeOf((*bool)(nil)) {
		return nil
	}

	return func(dst, src reflect.Value) error {
		if src.IsNil() {
			return nil
		}
		if dst.CanSet() {
			dst.Set(src)
		}
		return nil
	}
}
