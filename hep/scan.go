/*
 * Copyright 2023 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package hep

import (
	"fmt"

	"github.com/rulego/rulego-hep/api/types"
)

const (
	// FlavourScanWindow 扫描领头夸克的粒子数量
	FlavourScanWindow = 12
	// ISRScanWindow 扫描ISR光子的粒子数量
	ISRScanWindow = 10
)

// IsQuark reports whether pdg is a d, u, s, c or b quark (or antiquark).
func IsQuark(pdg int) bool {
	a := abs(pdg)
	return a >= 1 && a <= 5
}

// ScanFlavour returns the absolute PDG code of the first quark among the
// first FlavourScanWindow particles and its index, or (0, -1) when there is none.
//
// With strict set, a collection that ends before the window is exhausted
// without a quark yields types.ErrMalformedEvent. Otherwise the scan stops at
// the end of the collection.
func ScanFlavour(particles []types.Particle, strict bool) (int, int, error) {
	for i := 0; i < FlavourScanWindow; i++ {
		if i >= len(particles) {
			if strict {
				return 0, -1, fmt.Errorf("flavour scan needs %d particles, got %d: %w", FlavourScanWindow, len(particles), types.ErrMalformedEvent)
			}
			break
		}
		if IsQuark(particles[i].PDG) {
			return abs(particles[i].PDG), i, nil
		}
	}
	return 0, -1, nil
}

// PhotonScan 前两个末态光子的扫描结果
type PhotonScan struct {
	// FirstIndex 第一个末态光子的下标，-1 表示未找到
	FirstIndex int `json:"firstIndex"`
	// SecondIndex 第二个末态光子的下标，-1 表示未找到
	SecondIndex  int     `json:"secondIndex"`
	FirstEnergy  float64 `json:"firstEnergy"`
	SecondEnergy float64 `json:"secondEnergy"`
}

// Count 找到的光子数量
func (p PhotonScan) Count() int {
	n := 0
	if p.FirstIndex >= 0 {
		n++
	}
	if p.SecondIndex >= 0 {
		n++
	}
	return n
}

// Sum 已找到光子的能量之和
func (p PhotonScan) Sum() float64 {
	return p.FirstEnergy + p.SecondEnergy
}

// ScanISRPhotons finds the first final-state photon among the first
// ISRScanWindow particles, then the next one strictly after it inside the
// same window. Strict handling of short collections follows ScanFlavour.
func ScanISRPhotons(particles []types.Particle, strict bool) (PhotonScan, error) {
	scan := PhotonScan{FirstIndex: -1, SecondIndex: -1}
	limit := ISRScanWindow
	if len(particles) < limit {
		limit = len(particles)
	}
	for i := 0; i < limit; i++ {
		if particles[i].IsFinalStatePhoton() {
			scan.FirstIndex = i
			scan.FirstEnergy = particles[i].Energy
			break
		}
	}
	if scan.FirstIndex >= 0 {
		for i := scan.FirstIndex + 1; i < limit; i++ {
			if particles[i].IsFinalStatePhoton() {
				scan.SecondIndex = i
				scan.SecondEnergy = particles[i].Energy
				break
			}
		}
	}
	if strict && scan.SecondIndex < 0 && limit < ISRScanWindow {
		return scan, fmt.Errorf("isr scan needs %d particles, got %d: %w", ISRScanWindow, len(particles), types.ErrMalformedEvent)
	}
	return scan, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
