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
	"context"
	"sync"
)

// 关系 节点处理事件后的输出关系
// relation types
const (
	// True 事件通过节点筛选
	True = "True"
	// False 事件被节点拒绝
	False = "False"
	// Failure 事件无法被节点评估，例如粒子集合不存在
	Failure = "Failure"
)

// Configuration 组件配置类型
type Configuration map[string]interface{}

// Node 事件处理节点组件接口
// 把筛选逻辑封装成组件，然后通过规则链配置方式调用该组件
// 实现方式参考`components`包，然后注册到默认注册器：
// engine.Registry.Register(&MyNode{})
type Node interface {
	//New 创建一个组件新实例
	//每个规则链里的节点都会创建一个新的实例，数据是独立的
	New() Node
	//Type 组件类型，类型不能重复。
	//用于规则链 node.type 配置，初始化对应的组件
	Type() string
	//Init 组件初始化，解析节点配置，规则链初始化时调用一次
	Init(ruleConfig Config, configuration Configuration) error
	//OnEvent 处理事件，每个流入组件的事件会经过该函数处理，并返回判决结果
	OnEvent(ctx EventContext, evt *Event) Verdict
	//Destroy 销毁，运行结束时调用
	Destroy()
}

// RunListener 可选接口，节点需要感知运行(run)开始时实现
type RunListener interface {
	OnRunStart(run RunHeader)
}

// EventContext 事件处理上下文
type EventContext interface {
	//Config 获取引擎配置
	Config() Config
	//GetContext 获取调用方上下文
	GetContext() context.Context
	//GetSelfId 获取当前节点ID
	GetSelfId() string
	//IsDebugMode 当前节点是否是调试模式
	IsDebugMode() bool
}

// ComponentRegistry 节点组件注册器
type ComponentRegistry interface {
	//Register 注册组件，如果`node.Type()`已经存在则返回一个`已存在`错误
	Register(node Node) error
	//Unregister 删除组件
	Unregister(componentType string) error
	//NewNode 通过nodeType创建一个新的node实例
	NewNode(nodeType string) (Node, error)
	//GetComponents 获取所有注册组件列表
	GetComponents() map[string]Node
}

// SafeComponentSlice 安全的组件列表切片
type SafeComponentSlice struct {
	//组件列表
	components []Node
	sync.Mutex
}

// Add 线程安全地添加元素
func (p *SafeComponentSlice) Add(nodes ...Node) {
	p.Lock()
	defer p.Unlock()
	p.components = append(p.components, nodes...)
}

// Components 获取组件列表
func (p *SafeComponentSlice) Components() []Node {
	p.Lock()
	defer p.Unlock()
	return p.components
}

// EventProcessor 事件处理器，接入端点把事件交给它处理
type EventProcessor interface {
	RunListener
	OnEvent(ctx context.Context, evt *Event) Verdict
}
