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
	"github.com/rulego/rulego-hep/api/types"
)

// ISRCutDisabled ISR能量截断关闭的哨兵值
const ISRCutDisabled = -1

// FilterConfig 每次运行固定不变的筛选配置
type FilterConfig struct {
	// DesiredFlavour 期望的领头夸克味道
	DesiredFlavour Flavour
	// ISRCut 前两个末态光子能量之和的上限(GeV)，ISRCutDisabled 表示不截断
	ISRCut float64
	// PhotonPolicy 末态光子少于两个时的处理策略
	PhotonPolicy PhotonPolicy
	// StrictLength 粒子集合短于扫描窗口时以 MALFORMED_EVENT 拒绝
	StrictLength bool
}

// DefaultFilterConfig 默认配置：b 夸克，不做ISR截断
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		DesiredFlavour: FlavourBottom,
		ISRCut:         ISRCutDisabled,
		PhotonPolicy:   PhotonPolicySum,
		StrictLength:   true,
	}
}

// ISRCutEnabled reports whether the ISR energy stage runs.
func (c FilterConfig) ISRCutEnabled() bool {
	return c.ISRCut != ISRCutDisabled
}

// Summary 一次评估的中间结果，用于诊断日志和表达式筛选
type Summary struct {
	// Quark 领头夸克的PDG绝对值，0 表示扫描窗口内没有夸克
	Quark int `json:"quark"`
	// QuarkIndex 领头夸克的下标，-1 表示未找到
	QuarkIndex int        `json:"quarkIndex"`
	Photons    PhotonScan `json:"photons"`
	// ISREnergy 前两个末态光子能量之和
	ISREnergy float64 `json:"isrEnergy"`
	// ISRApplied ISR能量截断是否被执行
	ISRApplied bool `json:"isrApplied"`
}

// Selector 按领头夸克味道和ISR光子能量筛选事件。
// 判决只依赖配置和当前事件，可以重复调用。
type Selector struct {
	config FilterConfig
}

// NewSelector 创建筛选器
func NewSelector(config FilterConfig) *Selector {
	return &Selector{config: config}
}

// Config 返回筛选配置
func (s *Selector) Config() FilterConfig {
	return s.config
}

// Evaluate 评估一个事件的粒子列表
func (s *Selector) Evaluate(particles []types.Particle) types.Verdict {
	_, v := s.Inspect(particles)
	return v
}

// Inspect evaluates particles and also returns the intermediate scan results.
// The summary is filled up to the stage that produced the verdict.
func (s *Selector) Inspect(particles []types.Particle) (Summary, types.Verdict) {
	summary := Summary{QuarkIndex: -1, Photons: PhotonScan{FirstIndex: -1, SecondIndex: -1}}

	q, idx, err := ScanFlavour(particles, s.config.StrictLength)
	if err != nil {
		return summary, types.Failed(types.ReasonMalformedEvent, err)
	}
	summary.Quark, summary.QuarkIndex = q, idx
	if !s.config.DesiredFlavour.Matches(q) {
		return summary, types.Rejected(types.ReasonFlavourMismatch)
	}

	if !s.config.ISRCutEnabled() {
		return summary, types.Accepted()
	}
	photons, err := ScanISRPhotons(particles, s.config.StrictLength)
	summary.Photons = photons
	if err != nil {
		return summary, types.Failed(types.ReasonMalformedEvent, err)
	}
	summary.ISREnergy = photons.Sum()
	if photons.Count() < 2 {
		switch s.config.PhotonPolicy {
		case PhotonPolicySkip:
			return summary, types.Accepted()
		case PhotonPolicyReject:
			return summary, types.Rejected(types.ReasonInsufficientISRPhotons)
		}
	}
	summary.ISRApplied = true
	if summary.ISREnergy > s.config.ISRCut {
		return summary, types.Rejected(types.ReasonISREnergyAboveCut)
	}
	return summary, types.Accepted()
}
