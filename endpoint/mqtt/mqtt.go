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

// Package mqtt MQTT事件接入端点
//
// 端点订阅事件主题，每条消息是一个json编码的事件，交给事件处理器处理后
// 把判决发布到判决主题。无法解析的消息记录日志后丢弃。
package mqtt

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rulego/rulego-hep/api/types"
	"github.com/rulego/rulego-hep/utils/mqtt"
)

const (
	// DefaultEventTopic 默认事件主题
	DefaultEventTopic = "isrqq/events"
	// DefaultVerdictTopic 默认判决主题
	DefaultVerdictTopic = "isrqq/verdicts"
)

// Publisher 判决发布者
type Publisher interface {
	Publish(topic string, qos byte, data []byte) error
}

// Config 端点配置
type Config struct {
	mqtt.Config
	// EventTopic 订阅的事件主题
	EventTopic string
	// VerdictTopic 发布判决的主题，为空则不发布
	VerdictTopic string
	Qos          byte
}

// Mqtt MQTT接收端端点
type Mqtt struct {
	Config    Config
	processor types.EventProcessor
	logger    types.Logger
	client    *mqtt.Client
	publisher Publisher
}

// New 创建MQTT端点，Start之前不会连接broker
func New(config Config, processor types.EventProcessor, logger types.Logger) *Mqtt {
	if config.EventTopic == "" {
		config.EventTopic = DefaultEventTopic
	}
	return &Mqtt{
		Config:    config,
		processor: processor,
		logger:    types.NewLogger(logger),
	}
}

// Start 连接broker并订阅事件主题，ctx只用于控制连接过程
func (m *Mqtt) Start(ctx context.Context) error {
	if m.client != nil {
		return errors.New("mqtt endpoint already started")
	}
	client, err := mqtt.NewClient(ctx, m.Config.Config)
	if err != nil {
		return err
	}
	m.client = client
	m.publisher = client
	m.logger.Printf("mqtt endpoint subscribed to %s on %s", m.Config.EventTopic, m.Config.Server)
	return client.RegisterHandler(mqtt.Handler{
		Topic: m.Config.EventTopic,
		Qos:   m.Config.Qos,
		Handle: func(topic string, payload []byte) {
			m.Handle(context.Background(), topic, payload)
		},
	})
}

// Handle 处理一条事件消息
func (m *Mqtt) Handle(ctx context.Context, topic string, payload []byte) {
	defer func() {
		//捕捉异常
		if e := recover(); e != nil {
			m.logger.Printf("mqtt endpoint handler err :%v", e)
		}
	}()
	var evt types.Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		m.logger.Printf("[WARN] mqtt: drop malformed event from %s: %v", topic, err)
		return
	}
	verdict := m.processor.OnEvent(ctx, &evt)
	if m.Config.VerdictTopic == "" || m.publisher == nil {
		return
	}
	buf, err := json.Marshal(types.NewEventVerdict(&evt, verdict))
	if err != nil {
		m.logger.Printf("[WARN] mqtt: encode verdict of %s: %v", evt.Id, err)
		return
	}
	if err := m.publisher.Publish(m.Config.VerdictTopic, m.Config.Qos, buf); err != nil {
		m.logger.Printf("[WARN] mqtt: publish verdict of %s: %v", evt.Id, err)
	}
}

// Close 断开连接
func (m *Mqtt) Close() error {
	if m.client == nil {
		return nil
	}
	if err := m.client.UnregisterHandler(m.Config.EventTopic); err != nil {
		m.logger.Printf("[WARN] mqtt: unsubscribe %s: %v", m.Config.EventTopic, err)
	}
	err := m.client.Close()
	m.client = nil
	m.publisher = nil
	return err
}
