// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

package arch

import (
	"errors"
	"fmt"
	"strings"
)

// Precision is a numeric format executed by the tensor cores
type Precision int

const (
	FP4 Precision = iota
	FP8
	INT8
	FP16
	BF16
	FP32
)

var ErrUnknownPrecision = errors.New("unknown precision")

var precisionNames = map[Precision]string{
	FP4:  "FP4",
	FP8:  "FP8",
	INT8: "INT8",
	FP16: "FP16",
	BF16: "BF16",
	FP32: "FP32",
}

func (p Precision) String() string {
	if name, ok := precisionNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Precision(%d)", int(p))
}

// Precisions returns all supported precisions ordered from narrowest to widest
func Precisions() []Precision {
	return []Precision{FP4, FP8, INT8, FP16, BF16, FP32}
}

// ParsePrecision parses a case-insensitive precision name such as "fp16"
func ParsePrecision(s string) (Precision, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for _, p := range Precisions() {
		if precisionNames[p] == want {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPrecision, s)
}
