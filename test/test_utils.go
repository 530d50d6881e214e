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

// Package test 组件单元测试工具
package test

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rulego/rulego-hep/api/types"
)

// CreateAndInitNode 创建并初始化一个节点实例
func CreateAndInitNode(targetNodeType string, initConfig types.Configuration, registry *types.SafeComponentSlice) (types.Node, error) {
	return CreateAndInitNodeWithConfig(types.NewConfig(), targetNodeType, initConfig, registry)
}

// CreateAndInitNodeWithConfig 使用指定引擎配置创建并初始化一个节点实例
func CreateAndInitNodeWithConfig(config types.Config, targetNodeType string, initConfig types.Configuration, registry *types.SafeComponentSlice) (types.Node, error) {
	var nodeFactory types.Node
	for _, component := range registry.Components() {
		if component.Type() == targetNodeType {
			nodeFactory = component
		}
	}
	if nodeFactory == nil {
		return nil, fmt.Errorf("%s: %w", targetNodeType, types.ErrComponentNotFound)
	}
	node := nodeFactory.New()
	err := node.Init(config, initConfig)
	return node, err
}

// NodeOnEvents 依次把事件交给节点处理，返回每个事件的判决
func NodeOnEvents(node types.Node, ctx types.EventContext, events ...*types.Event) []types.Verdict {
	var verdicts []types.Verdict
	for _, evt := range events {
		verdicts = append(verdicts, node.OnEvent(ctx, evt))
	}
	return verdicts
}

// Particles 构造长度为 n 的粒子列表，前面是 head，其余用中微子(PDG 12)填充
func Particles(n int, head ...types.Particle) []types.Particle {
	particles := make([]types.Particle, n)
	for i := range particles {
		particles[i] = types.Particle{PDG: 12, GeneratorStatus: types.GeneratorStatusFinal, Energy: 1}
	}
	copy(particles, head)
	return particles
}

// Quark 构造一个中间态夸克
func Quark(pdg int) types.Particle {
	return types.Particle{PDG: pdg, GeneratorStatus: 3, Energy: 250}
}

// Photon 构造一个末态光子
func Photon(energy float64) types.Particle {
	return types.Particle{PDG: types.PdgPhoton, GeneratorStatus: types.GeneratorStatusFinal, Energy: energy}
}

// Event 构造一个只包含默认粒子集合的事件
func Event(eventNumber int, particles []types.Particle) *types.Event {
	return types.NewEvent(1, eventNumber, map[string][]types.Particle{
		types.DefaultCollectionName: particles,
	})
}

var _ types.Logger = (*Logger)(nil)

// Logger 记录日志内容，用于断言
type Logger struct {
	mu    sync.Mutex
	lines []string
}

func (l *Logger) Printf(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

// Lines 返回所有日志
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

// Count 返回包含 substr 的日志条数
func (l *Logger) Count(substr string) int {
	n := 0
	for _, line := range l.Lines() {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}
