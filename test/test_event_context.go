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

package test

import (
	"context"

	"github.com/rulego/rulego-hep/api/types"
)

var _ types.EventContext = (*NodeTestEventContext)(nil)

// NodeTestEventContext
// 只为测试单节点，临时创建的上下文
type NodeTestEventContext struct {
	context   context.Context
	config    types.Config
	selfId    string
	debugMode bool
}

// NewEventContext 创建测试上下文
func NewEventContext(config types.Config, selfId string, debugMode bool) *NodeTestEventContext {
	return &NodeTestEventContext{
		context:   context.TODO(),
		config:    config,
		selfId:    selfId,
		debugMode: debugMode,
	}
}

func (ctx *NodeTestEventContext) Config() types.Config {
	return ctx.config
}

func (ctx *NodeTestEventContext) GetContext() context.Context {
	return ctx.context
}

func (ctx *NodeTestEventContext) GetSelfId() string {
	return ctx.selfId
}

func (ctx *NodeTestEventContext) IsDebugMode() bool {
	return ctx.debugMode
}
