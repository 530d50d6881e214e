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
	"encoding/json"
	"fmt"
)

// Reason 拒绝原因
type Reason int

const (
	ReasonNone Reason = iota
	// ReasonFlavourMismatch 领头夸克味道与期望不符
	ReasonFlavourMismatch
	// ReasonISREnergyAboveCut 前两个末态光子能量之和超过阈值
	ReasonISREnergyAboveCut
	// ReasonCollectionUnavailable 事件中找不到粒子集合，事件未被处理
	ReasonCollectionUnavailable
	// ReasonMalformedEvent 粒子集合长度不足以完成扫描
	ReasonMalformedEvent
	// ReasonInsufficientISRPhotons 末态光子少于两个，且策略为拒绝
	ReasonInsufficientISRPhotons
	// ReasonExpressionFalse 用户表达式结果为 false
	ReasonExpressionFalse
	// ReasonExpressionError 用户表达式执行失败
	ReasonExpressionError
)

var reasonNames = map[Reason]string{
	ReasonNone:                   "NONE",
	ReasonFlavourMismatch:        "FLAVOUR_MISMATCH",
	ReasonISREnergyAboveCut:      "ISR_ENERGY_ABOVE_CUT",
	ReasonCollectionUnavailable:  "COLLECTION_UNAVAILABLE",
	ReasonMalformedEvent:         "MALFORMED_EVENT",
	ReasonInsufficientISRPhotons: "INSUFFICIENT_ISR_PHOTONS",
	ReasonExpressionFalse:        "EXPRESSION_FALSE",
	ReasonExpressionError:        "EXPRESSION_ERROR",
}

func (r Reason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// ParseReason 通过名称解析拒绝原因
func ParseReason(name string) (Reason, error) {
	for r, n := range reasonNames {
		if n == name {
			return r, nil
		}
	}
	return ReasonNone, fmt.Errorf("unknown reason %q", name)
}

func (r Reason) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Reason) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	v, err := ParseReason(name)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Verdict 节点对一个事件的判决结果
type Verdict struct {
	// Accept 事件是否继续流向下游
	Accept bool `json:"accept"`
	// Reason 拒绝原因，Accept=true 时为 ReasonNone
	Reason Reason `json:"reason"`
	// NodeId 做出拒绝判决的节点ID
	NodeId string `json:"nodeId,omitempty"`
	// Err 事件无法评估时的错误
	Err error `json:"-"`
}

// Accepted 返回通过判决
func Accepted() Verdict {
	return Verdict{Accept: true}
}

// Rejected 返回拒绝判决
func Rejected(reason Reason) Verdict {
	return Verdict{Reason: reason}
}

// Failed 返回无法评估的判决
func Failed(reason Reason, err error) Verdict {
	return Verdict{Reason: reason, Err: err}
}

// Processed 事件是否被评估。集合不存在的事件没有被处理，下游需要区别对待
func (v Verdict) Processed() bool {
	return v.Reason != ReasonCollectionUnavailable
}

// Relation 判决对应的节点输出关系
func (v Verdict) Relation() string {
	switch {
	case v.Accept:
		return True
	case v.Err != nil:
		return Failure
	default:
		return False
	}
}

func (v Verdict) String() string {
	if v.Accept {
		return "ACCEPT"
	}
	if v.Err != nil {
		return fmt.Sprintf("REJECT(%s): %v", v.Reason, v.Err)
	}
	return fmt.Sprintf("REJECT(%s)", v.Reason)
}

// EventVerdict 一个事件的判决，端点和存储使用
type EventVerdict struct {
	EventId     string `json:"eventId"`
	RunNumber   int    `json:"runNumber"`
	EventNumber int    `json:"eventNumber"`
	Verdict
	// Error Verdict.Err 的文本
	Error string `json:"error,omitempty"`
}

func (ev EventVerdict) String() string {
	return fmt.Sprintf("event %s (run %d, event %d): %s", ev.EventId, ev.RunNumber, ev.EventNumber, ev.Verdict)
}

// NewEventVerdict 组合事件和判决
func NewEventVerdict(evt *Event, v Verdict) EventVerdict {
	ev := EventVerdict{Verdict: v}
	if evt != nil {
		ev.EventId = evt.Id
		ev.RunNumber = evt.RunNumber
		ev.EventNumber = evt.EventNumber
	}
	if v.Err != nil {
		ev.Error = v.Err.Error()
	}
	return ev
}
