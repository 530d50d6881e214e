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

package types

import (
	"fmt"

	"github.com/gofrs/uuid/v5"
)

// PDG particle codes used by the selection.
const (
	PdgPhoton = 22
)

// GeneratorStatusFinal marks a stable, final-state particle.
const GeneratorStatusFinal = 1

// DefaultCollectionName 默认的 MC 粒子集合名称
const DefaultCollectionName = "MCParticlesSkimmed"

// Particle 生成器粒子记录，只读
type Particle struct {
	// PDG 粒子类型编码，PDG 约定，带符号
	PDG int `json:"pdg"`
	// GeneratorStatus 生成器状态，1 表示末态粒子
	GeneratorStatus int `json:"genStatus"`
	// Energy 能量，单位 GeV
	Energy float64 `json:"energy"`
}

// IsFinalStatePhoton reports whether p is a photon with generator status 1.
func (p Particle) IsFinalStatePhoton() bool {
	return p.PDG == PdgPhoton && p.GeneratorStatus == GeneratorStatusFinal
}

// Metadata 事件元数据
type Metadata map[string]string

// NewMetadata 创建一个新的事件元数据实例
func NewMetadata() Metadata {
	return make(Metadata)
}

// Copy 复制
func (md Metadata) Copy() Metadata {
	c := make(Metadata, len(md))
	for k, v := range md {
		c[k] = v
	}
	return c
}

// Has 是否存在某个key
func (md Metadata) Has(key string) bool {
	_, ok := md[key]
	return ok
}

// GetValue 通过key获取值
func (md Metadata) GetValue(key string) string {
	return md[key]
}

// PutValue 设置值
func (md Metadata) PutValue(key, value string) {
	if key != "" {
		md[key] = value
	}
}

// RunHeader 运行头信息
type RunHeader struct {
	RunNumber   int    `json:"runNumber"`
	Detector    string `json:"detector,omitempty"`
	Description string `json:"description,omitempty"`
}

// Event 一个模拟碰撞事件，包含若干个命名的粒子集合
type Event struct {
	// Id 事件ID，在整个处理过程中唯一
	Id          string                `json:"id"`
	RunNumber   int                   `json:"runNumber"`
	EventNumber int                   `json:"eventNumber"`
	Metadata    Metadata              `json:"metadata,omitempty"`
	Collections map[string][]Particle `json:"collections"`
}

// NewEvent 创建一个新的事件实例，并通过uuid生成事件ID
func NewEvent(runNumber, eventNumber int, collections map[string][]Particle) *Event {
	uuId, _ := uuid.NewV4()
	if collections == nil {
		collections = make(map[string][]Particle)
	}
	return &Event{
		Id:          uuId.String(),
		RunNumber:   runNumber,
		EventNumber: eventNumber,
		Metadata:    NewMetadata(),
		Collections: collections,
	}
}

// EnsureId assigns a fresh id when the event was decoded without one.
func (e *Event) EnsureId() {
	if e.Id == "" {
		uuId, _ := uuid.NewV4()
		e.Id = uuId.String()
	}
	if e.Metadata == nil {
		e.Metadata = NewMetadata()
	}
}

// Collection 通过名称查找粒子集合
func (e *Event) Collection(name string) ([]Particle, error) {
	if e == nil || e.Collections == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrCollectionUnavailable)
	}
	particles, ok := e.Collections[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrCollectionUnavailable)
	}
	return particles, nil
}
