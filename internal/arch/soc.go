// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

package arch

import (
	"fmt"

	"github.com/nexgen-ai/socmodel/internal/units"
)

// Chiplet is a single die: a set of identical SMs sharing an L2 cache
type Chiplet struct {
	SMs               int
	L2CacheMB         int
	UCIeBandwidthGBps int // per direction
	AreaMM2           float64
	ProcessNode       string

	SM SM
}

// DefaultChiplet returns the baseline chiplet: 16 SMs, 6 MB L2 on 400 mm²
func DefaultChiplet() Chiplet {
	return Chiplet{
		SMs:               16,
		L2CacheMB:         6,
		UCIeBandwidthGBps: 256,
		AreaMM2:           400,
		ProcessNode:       "TSMC 3nm",
		SM:                DefaultSM(),
	}
}

func (c Chiplet) WithSMs(n int) Chiplet {
	c.SMs = n
	return c
}

func (c Chiplet) WithL2CacheMB(mb int) Chiplet {
	c.L2CacheMB = mb
	return c
}

func (c Chiplet) WithAreaMM2(area float64) Chiplet {
	c.AreaMM2 = area
	return c
}

func (c Chiplet) WithSM(sm SM) Chiplet {
	c.SM = sm
	return c
}

func (c Chiplet) Validate() error {
	if c.SMs <= 0 {
		return fmt.Errorf("invalid chiplet: SM count must be positive, got %d", c.SMs)
	}
	if c.AreaMM2 <= 0 {
		return fmt.Errorf("invalid chiplet: area must be positive, got %.1f mm²", c.AreaMM2)
	}
	if c.L2CacheMB < 0 {
		return fmt.Errorf("invalid chiplet: L2 size can't be negative, got %d MB", c.L2CacheMB)
	}
	return c.SM.Validate()
}

// SoC is the full package: identical chiplets plus HBM and off-chip links
type SoC struct {
	Chiplets                   int
	HBMStacks                  int
	HBMBandwidthPerStackGBps   int
	NVLinkLanes                int
	NVLinkBandwidthPerLaneGBps int
	PCIeGen                    int
	PCIeLanes                  int
	PCIeBandwidthGBps          int

	Chiplet Chiplet
}

// DefaultSoC returns the baseline 4-chiplet SoC with 8 HBM3e stacks
func DefaultSoC() SoC {
	return SoC{
		Chiplets:                   4,
		HBMStacks:                  8,
		HBMBandwidthPerStackGBps:   128,
		NVLinkLanes:                6,
		NVLinkBandwidthPerLaneGBps: 100,
		PCIeGen:                    6,
		PCIeLanes:                  16,
		PCIeBandwidthGBps:          128,
		Chiplet:                    DefaultChiplet(),
	}
}

func (s SoC) WithChiplets(n int) SoC {
	s.Chiplets = n
	return s
}

func (s SoC) WithHBMStacks(n int) SoC {
	s.HBMStacks = n
	return s
}

func (s SoC) WithChiplet(c Chiplet) SoC {
	s.Chiplet = c
	return s
}

// TotalSMs is the SM count across all chiplets
func (s SoC) TotalSMs() int {
	return s.Chiplets * s.Chiplet.SMs
}

// TotalAreaMM2 is the summed die area of all chiplets
func (s SoC) TotalAreaMM2() float64 {
	return float64(s.Chiplets) * s.Chiplet.AreaMM2
}

// TotalL2CacheMB is the summed L2 capacity of all chiplets
func (s SoC) TotalL2CacheMB() int {
	return s.Chiplets * s.Chiplet.L2CacheMB
}

// TotalHBMBandwidth is the aggregate bandwidth of all HBM stacks
func (s SoC) TotalHBMBandwidth() units.Bandwidth {
	return units.Bandwidth(s.HBMStacks*s.HBMBandwidthPerStackGBps) * units.GBps
}

// NVLinkBandwidth is the aggregate bandwidth of all NVLink lanes
func (s SoC) NVLinkBandwidth() units.Bandwidth {
	return units.Bandwidth(s.NVLinkLanes*s.NVLinkBandwidthPerLaneGBps) * units.GBps
}

func (s SoC) Validate() error {
	if s.Chiplets <= 0 {
		return fmt.Errorf("invalid SoC: chiplet count must be positive, got %d", s.Chiplets)
	}
	if s.HBMStacks <= 0 || s.HBMBandwidthPerStackGBps <= 0 {
		return fmt.Errorf("invalid SoC: HBM needs positive stacks and bandwidth, got %d x %d GB/s",
			s.HBMStacks, s.HBMBandwidthPerStackGBps)
	}
	return s.Chiplet.Validate()
}
