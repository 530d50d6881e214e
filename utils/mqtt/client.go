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

// Package mqtt 基于paho的MQTT客户端封装，供事件接入端点使用。
//
// 客户端在连接或者重连成功后会重新订阅所有已注册的主题。
package mqtt

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/gofrs/uuid/v5"
)

// DefaultConnectRetryInterval 连接失败后的重试间隔
const DefaultConnectRetryInterval = 2 * time.Second

// Handler 订阅数据处理器
type Handler struct {
	//订阅主题
	Topic string
	//订阅Qos
	Qos byte
	//接收订阅数据 处理
	Handle func(topic string, payload []byte)
}

// Config 客户端配置
type Config struct {
	//mqtt broker 地址，例如：tcp://127.0.0.1:1883
	Server string
	//用户名
	Username string
	//密码
	Password string
	//重连重试间隔
	MaxReconnectInterval time.Duration
	CleanSession         bool
	//client Id，为空则随机生成
	ClientID    string
	CAFile      string
	CertFile    string
	CertKeyFile string
}

// Client mqtt客户端
type Client struct {
	sync.RWMutex
	client paho.Client
	//订阅主题和处理器映射
	handlers map[string]Handler
}

// NewClient 创建一个MQTT客户端实例，连接失败会一直重试直到ctx取消
func NewClient(ctx context.Context, conf Config) (*Client, error) {
	b := &Client{
		handlers: make(map[string]Handler),
	}
	opts, err := b.clientOptions(conf)
	if err != nil {
		return nil, err
	}
	b.client = paho.NewClient(opts)

	for {
		token := b.client.Connect()
		if token.Wait() && token.Error() == nil {
			return b, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("connect %s: %w", conf.Server, token.Error())
		case <-time.After(DefaultConnectRetryInterval):
		}
	}
}

func (b *Client) clientOptions(conf Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions()
	opts.AddBroker(conf.Server)
	opts.SetUsername(conf.Username)
	opts.SetPassword(conf.Password)
	opts.SetCleanSession(conf.CleanSession)
	opts.SetClientID(ClientID(conf.ClientID))
	opts.SetOnConnectHandler(b.onConnected)
	//处理器里会等待发布完成，消息不能按顺序在路由协程中分发
	opts.SetOrderMatters(false)
	if conf.MaxReconnectInterval <= 0 {
		conf.MaxReconnectInterval = time.Second * 60
	}
	opts.SetMaxReconnectInterval(conf.MaxReconnectInterval)

	tlsConfig, err := newTLSConfig(conf.CAFile, conf.CertFile, conf.CertKeyFile)
	if err != nil {
		return nil, fmt.Errorf("error loading mqtt certificate files,ca_cert=%s,tls_cert=%s,tls_key=%s: %w", conf.CAFile, conf.CertFile, conf.CertKeyFile, err)
	}
	if tlsConfig != nil {
		opts.SetTLSConfig(tlsConfig)
	}
	return opts, nil
}

// ClientID 返回指定的clientId，为空则生成一个随机clientId
func ClientID(id string) string {
	if id != "" {
		return id
	}
	return "isrqq/" + uuid.Must(uuid.NewV4()).String()[:8]
}

// RegisterHandler 注册订阅数据处理器
func (b *Client) RegisterHandler(handler Handler) error {
	b.Lock()
	b.handlers[handler.Topic] = handler
	b.Unlock()
	return b.subscribe(handler)
}

// UnregisterHandler 删除订阅数据处理器
func (b *Client) UnregisterHandler(topic string) error {
	b.Lock()
	defer b.Unlock()
	if _, ok := b.handlers[topic]; !ok {
		return nil
	}
	if token := b.client.Unsubscribe(topic); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	delete(b.handlers, topic)
	return nil
}

// Publish 发布数据
func (b *Client) Publish(topic string, qos byte, data []byte) error {
	if token := b.client.Publish(topic, qos, false, data); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

// Close 取消所有订阅并断开连接
func (b *Client) Close() error {
	for _, h := range b.copyHandlers() {
		b.client.Unsubscribe(h.Topic)
	}
	b.client.Disconnect(500)
	return nil
}

func (b *Client) copyHandlers() []Handler {
	b.RLock()
	defer b.RUnlock()
	handlers := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	return handlers
}

// 重连后重新订阅
func (b *Client) onConnected(c paho.Client) {
	for _, h := range b.copyHandlers() {
		_ = b.subscribe(h)
	}
}

func (b *Client) subscribe(handler Handler) error {
	token := b.client.Subscribe(handler.Topic, handler.Qos, func(c paho.Client, m paho.Message) {
		handler.Handle(m.Topic(), m.Payload())
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	if st, ok := token.(*paho.SubscribeToken); ok && is128Err(st, handler.Topic) {
		return fmt.Errorf("subscribe %s: rejected by broker", handler.Topic)
	}
	return nil
}

// 判断是否是acl 128错误
func is128Err(token *paho.SubscribeToken, topic string) bool {
	result, ok := token.Result()[topic]
	return ok && result == 128
}

func newTLSConfig(caFile, certFile, certKeyFile string) (*tls.Config, error) {
	if caFile == "" && certFile == "" && certKeyFile == "" {
		return nil, nil
	}
	tlsConfig := &tls.Config{}
	if caFile != "" {
		caCert, err := os.ReadFile(caFile)
		if err != nil {
			return nil, err
		}
		certPool := x509.NewCertPool()
		certPool.AppendCertsFromPEM(caCert)
		tlsConfig.RootCAs = certPool
	}
	if certFile != "" && certKeyFile != "" {
		kp, err := tls.LoadX509KeyPair(certFile, certKeyFile)
		if err != nil {
			return nil, err
		}
		tlsConfig.Certificates = []tls.Certificate{kp}
	}
	return tlsConfig, nil
}
