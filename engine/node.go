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
	"fmt"
	"strings"

	"github.com/rulego/rulego-hep/api/types"
)

// globalPrefix 节点配置中引用全局属性的前缀，例如：${global.isrCut}
const globalPrefix = "global."

// RuleNodeCtx 节点组件实例定义
type RuleNodeCtx struct {
	//组件实例
	types.Node
	//组件配置
	SelfDefinition *types.RuleNode
	//规则链是否是调试模式
	chainDebugMode bool
	//规则引擎配置
	config types.Config
}

// InitRuleNodeCtx 初始化RuleNodeCtx
func InitRuleNodeCtx(config types.Config, chainDebugMode bool, selfDefinition *types.RuleNode) (*RuleNodeCtx, error) {
	node, err := config.ComponentsRegistry.NewNode(selfDefinition.Type)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", selfDefinition.Id, err)
	}
	if selfDefinition.Configuration == nil {
		selfDefinition.Configuration = make(types.Configuration)
	}
	configuration := processVariables(config, selfDefinition.Configuration)
	if err = node.Init(config, configuration); err != nil {
		return nil, fmt.Errorf("init node %s(%s): %w", selfDefinition.Id, selfDefinition.Type, err)
	}
	return &RuleNodeCtx{
		Node:           node,
		SelfDefinition: selfDefinition,
		chainDebugMode: chainDebugMode,
		config:         config,
	}, nil
}

func (rn *RuleNodeCtx) Config() types.Config {
	return rn.config
}

// IsDebugMode 节点或者规则链处于调试模式
func (rn *RuleNodeCtx) IsDebugMode() bool {
	return rn.SelfDefinition.DebugMode || rn.chainDebugMode
}

func (rn *RuleNodeCtx) GetNodeId() string {
	return rn.SelfDefinition.Id
}

// 使用全局配置替换节点占位符配置，例如：${global.propertyKey}
func processVariables(config types.Config, configuration types.Configuration) types.Configuration {
	var result = make(types.Configuration, len(configuration))
	for key, value := range configuration {
		if strV, ok := value.(string); ok && config.Properties != nil {
			for k, v := range config.Properties {
				strV = strings.ReplaceAll(strV, "${"+globalPrefix+k+"}", v)
			}
			result[key] = strV
		} else {
			result[key] = value
		}
	}
	return result
}

var _ types.EventContext = (*eventContext)(nil)

// eventContext 一个节点处理一个事件的上下文
type eventContext struct {
	context context.Context
	self    *RuleNodeCtx
}

func (ctx *eventContext) Config() types.Config {
	return ctx.self.config
}

func (ctx *eventContext) GetContext() context.Context {
	return ctx.context
}

func (ctx *eventContext) GetSelfId() string {
	return ctx.self.GetNodeId()
}

func (ctx *eventContext) IsDebugMode() bool {
	return ctx.self.IsDebugMode()
}
