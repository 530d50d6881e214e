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

package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/rulego/rulego-hep/api/types"
)

// ErrStopped 处理器已经停止
var ErrStopped = errors.New("processor stopped")

// Stats 处理统计
type Stats struct {
	// Runs 已开始的运行数
	Runs int64 `json:"runs"`
	// Events 已处理的事件数，包括无法评估的事件
	Events int64 `json:"events"`
	// Accepted 通过的事件数
	Accepted int64 `json:"accepted"`
	// Rejected 按原因统计的拒绝事件数
	Rejected map[string]int64 `json:"rejected"`
	// Unprocessed 找不到粒子集合而未被处理的事件数
	Unprocessed int64 `json:"unprocessed"`
}

func (s Stats) copy() Stats {
	c := s
	c.Rejected = make(map[string]int64, len(s.Rejected))
	for k, v := range s.Rejected {
		c.Rejected[k] = v
	}
	return c
}

// Processor 规则链事件处理器
// 事件按节点声明顺序流经每个节点，第一个没有通过的节点决定事件的判决。
// 同一时刻只处理一个事件，保证节点看到的事件顺序是确定的。
type Processor struct {
	id     string
	config types.Config
	def    types.RuleChain
	nodes  []*RuleNodeCtx
	stats  Stats
	//是否已经停止
	stopped bool
	sync.Mutex
}

// New 创建一个规则链事件处理器
// id 为空时使用规则链定义的ID
func New(id string, def []byte, opts ...types.Option) (*Processor, error) {
	config := types.NewConfig(opts...)
	if config.ComponentsRegistry == nil {
		config.ComponentsRegistry = Registry
	}
	config.Logger = types.NewLogger(config.Logger)
	p := &Processor{
		config: config,
		stats:  Stats{Rejected: make(map[string]int64)},
	}
	if err := p.load(def); err != nil {
		return nil, err
	}
	if id != "" {
		p.id = id
	}
	return p, nil
}

func (p *Processor) load(def []byte) error {
	parser := &JsonParser{}
	chain, err := parser.DecodeRuleChain(def)
	if err != nil {
		return err
	}
	var nodes []*RuleNodeCtx
	for _, item := range chain.Metadata.Nodes {
		nodeCtx, err := InitRuleNodeCtx(p.config, chain.RuleChain.DebugMode, item)
		if err != nil {
			for _, n := range nodes {
				n.Destroy()
			}
			return err
		}
		nodes = append(nodes, nodeCtx)
	}
	p.def = chain
	p.id = chain.RuleChain.ID
	p.nodes = nodes
	return nil
}

// Id 规则链ID
func (p *Processor) Id() string {
	return p.id
}

// Definition 规则链定义
func (p *Processor) Definition() types.RuleChain {
	p.Lock()
	defer p.Unlock()
	return p.def
}

// GetNodeById 通过节点ID获取节点实例
func (p *Processor) GetNodeById(id string) (*RuleNodeCtx, bool) {
	p.Lock()
	defer p.Unlock()
	for _, n := range p.nodes {
		if n.GetNodeId() == id {
			return n, true
		}
	}
	return nil, false
}

// Reload 使用新的规则链定义重新加载所有节点，统计数据保持不变
func (p *Processor) Reload(def []byte) error {
	p.Lock()
	defer p.Unlock()
	old := p.nodes
	id := p.id
	if err := p.load(def); err != nil {
		return err
	}
	p.id = id
	for _, n := range old {
		n.Destroy()
	}
	return nil
}

// OnRunStart 通知所有节点新的运行开始
func (p *Processor) OnRunStart(run types.RunHeader) {
	p.Lock()
	defer p.Unlock()
	if p.stopped {
		return
	}
	p.stats.Runs++
	for _, n := range p.nodes {
		if listener, ok := n.Node.(types.RunListener); ok {
			listener.OnRunStart(run)
		}
	}
}

// OnEvent 处理一个事件，并返回判决
func (p *Processor) OnEvent(ctx context.Context, evt *types.Event) types.Verdict {
	if ctx == nil {
		ctx = context.Background()
	}
	p.Lock()
	defer p.Unlock()
	if p.stopped {
		return types.Failed(types.ReasonNone, ErrStopped)
	}
	evt.EnsureId()

	verdict := types.Accepted()
	for _, n := range p.nodes {
		v := n.OnEvent(&eventContext{context: ctx, self: n}, evt)
		if n.IsDebugMode() && p.config.OnDebug != nil {
			p.config.OnDebug(p.id, n.GetNodeId(), evt, v)
		}
		if !v.Accept {
			v.NodeId = n.GetNodeId()
			verdict = v
			break
		}
	}
	p.record(verdict)
	if p.config.OnVerdict != nil {
		p.config.OnVerdict(evt, verdict)
	}
	return verdict
}

func (p *Processor) record(v types.Verdict) {
	p.stats.Events++
	switch {
	case v.Accept:
		p.stats.Accepted++
	case !v.Processed():
		p.stats.Unprocessed++
	default:
		p.stats.Rejected[v.Reason.String()]++
	}
}

// Stats 返回统计数据快照
func (p *Processor) Stats() Stats {
	p.Lock()
	defer p.Unlock()
	return p.stats.copy()
}

// Stop 停止处理器，销毁所有节点
func (p *Processor) Stop() {
	p.Lock()
	defer p.Unlock()
	if p.stopped {
		return
	}
	p.stopped = true
	for _, n := range p.nodes {
		n.Destroy()
	}
}
