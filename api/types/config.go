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

// Config 引擎配置
type Config struct {
	// OnDebug 节点调试信息回调函数，只有节点debugMode=true才会调用
	// - ruleChainId: 规则链ID
	// - nodeId: 节点ID
	// - evt: 当前事件
	// - verdict: 节点判决
	OnDebug func(ruleChainId string, nodeId string, evt *Event, verdict Verdict)
	// OnVerdict 每个事件处理完成后的回调函数，用于持久化或统计
	OnVerdict func(evt *Event, verdict Verdict)
	// ComponentsRegistry 组件注册器，默认使用`engine.Registry`
	ComponentsRegistry ComponentRegistry
	// Logger 日志记录接口，默认`DefaultLogger()`
	Logger Logger
	// Properties 全局属性，key-value形式
	Properties Metadata
}

// Option 修改Config的函数
type Option func(*Config) error

// NewConfig 创建默认配置，并应用选项
func NewConfig(opts ...Option) Config {
	c := &Config{
		Logger:     DefaultLogger(),
		Properties: NewMetadata(),
	}
	for _, opt := range opts {
		_ = opt(c)
	}
	return *c
}

// WithComponentsRegistry 设置组件注册器
func WithComponentsRegistry(componentsRegistry ComponentRegistry) Option {
	return func(c *Config) error {
		c.ComponentsRegistry = componentsRegistry
		return nil
	}
}

// WithOnDebug 设置节点调试回调函数
func WithOnDebug(onDebug func(ruleChainId string, nodeId string, evt *Event, verdict Verdict)) Option {
	return func(c *Config) error {
		c.OnDebug = onDebug
		return nil
	}
}

// WithOnVerdict 设置事件判决回调函数
func WithOnVerdict(onVerdict func(evt *Event, verdict Verdict)) Option {
	return func(c *Config) error {
		c.OnVerdict = onVerdict
		return nil
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger Logger) Option {
	return func(c *Config) error {
		c.Logger = NewLogger(logger)
		return nil
	}
}

// WithProperties 设置全局属性
func WithProperties(properties Metadata) Option {
	return func(c *Config) error {
		c.Properties = properties
		return nil
	}
}

// WithConfig 使用一个已有的配置
func WithConfig(config Config) Option {
	return func(c *Config) error {
		*c = config
		return nil
	}
}
