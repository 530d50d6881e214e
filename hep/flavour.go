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

import "fmt"

// Flavour 期望的领头夸克味道
type Flavour int

const (
	// FlavourNone 不按味道筛选
	FlavourNone Flavour = iota
	FlavourDown
	FlavourUp
	FlavourStrange
	FlavourCharm
	FlavourBottom
	// FlavourLight d/u/s 夸克，或者扫描窗口内没有夸克
	FlavourLight
)

var flavourLabels = map[Flavour]string{
	FlavourNone:    "none",
	FlavourDown:    "d_quark",
	FlavourUp:      "u_quark",
	FlavourStrange: "s_quark",
	FlavourCharm:   "c_quark",
	FlavourBottom:  "b_quark",
	FlavourLight:   "light_quark",
}

// ParseFlavour maps a steering label to a Flavour. Unknown labels select
// every event, the same as "none"; the bool reports whether the label was known.
func ParseFlavour(label string) (Flavour, bool) {
	for f, l := range flavourLabels {
		if l == label {
			return f, true
		}
	}
	return FlavourNone, false
}

func (f Flavour) String() string {
	if l, ok := flavourLabels[f]; ok {
		return l
	}
	return fmt.Sprintf("Flavour(%d)", int(f))
}

// Matches reports whether the leading quark code q (0 when no quark was
// found) satisfies the flavour requirement.
func (f Flavour) Matches(q int) bool {
	switch f {
	case FlavourDown, FlavourUp, FlavourStrange, FlavourCharm, FlavourBottom:
		return q == int(f)
	case FlavourLight:
		return q <= 3
	default:
		return true
	}
}

// PhotonPolicy 末态光子少于两个时ISR能量截断的处理策略
type PhotonPolicy int

const (
	// PhotonPolicySum 缺失的光子能量按0计算
	PhotonPolicySum PhotonPolicy = iota
	// PhotonPolicySkip 不做ISR能量截断
	PhotonPolicySkip
	// PhotonPolicyReject 以 INSUFFICIENT_ISR_PHOTONS 原因拒绝
	PhotonPolicyReject
)

var photonPolicyLabels = map[PhotonPolicy]string{
	PhotonPolicySum:    "sum",
	PhotonPolicySkip:   "skip",
	PhotonPolicyReject: "reject",
}

// ParsePhotonPolicy 通过名称解析策略，空字符串为默认策略 sum
func ParsePhotonPolicy(label string) (PhotonPolicy, error) {
	if label == "" {
		return PhotonPolicySum, nil
	}
	for p, l := range photonPolicyLabels {
		if l == label {
			return p, nil
		}
	}
	return PhotonPolicySum, fmt.Errorf("unknown photon policy %q, expected sum, skip or reject", label)
}

func (p PhotonPolicy) String() string {
	if l, ok := photonPolicyLabels[p]; ok {
		return l
	}
	return fmt.Sprintf("PhotonPolicy(%d)", int(p))
}
