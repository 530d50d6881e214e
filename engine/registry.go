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
	"fmt"
	"sync"

	"github.com/rulego/rulego-hep/api/types"
	"github.com/rulego/rulego-hep/components/filter"
)

// Registry 组件默认注册器
var Registry = new(RuleComponentRegistry)

// 注册默认组件
func init() {
	for _, node := range filter.Registry.Components() {
		_ = Registry.Register(node)
	}
}

var _ types.ComponentRegistry = (*RuleComponentRegistry)(nil)

// RuleComponentRegistry 组件注册器
type RuleComponentRegistry struct {
	//节点组件列表
	components map[string]types.Node
	sync.RWMutex
}

// Register 注册节点组件，如果`node.Type()`已经存在则返回一个`已存在`错误
func (r *RuleComponentRegistry) Register(node types.Node) error {
	r.Lock()
	defer r.Unlock()
	if r.components == nil {
		r.components = make(map[string]types.Node)
	}
	if _, ok := r.components[node.Type()]; ok {
		return fmt.Errorf("%w. nodeType=%s", types.ErrComponentExists, node.Type())
	}
	r.components[node.Type()] = node
	return nil
}

// Unregister 删除组件
func (r *RuleComponentRegistry) Unregister(componentType string) error {
	r.Lock()
	defer r.Unlock()
	if _, ok := r.components[componentType]; !ok {
		return fmt.Errorf("%w. componentType=%s", types.ErrComponentNotFound, componentType)
	}
	delete(r.components, componentType)
	return nil
}

// NewNode 通过nodeType创建一个新的node实例
func (r *RuleComponentRegistry) NewNode(nodeType string) (types.Node, error) {
	r.RLock()
	defer r.RUnlock()
	if node, ok := r.components[nodeType]; !ok {
		return nil, fmt.Errorf("%w. componentType=%s", types.ErrComponentNotFound, nodeType)
	} else {
		return node.New(), nil
	}
}

// GetComponents 获取所有注册组件列表
func (r *RuleComponentRegistry) GetComponents() map[string]types.Node {
	r.RLock()
	defer r.RUnlock()
	var components = map[string]types.Node{}
	for k, v := range r.components {
		components[k] = v
	}
	return components
}
