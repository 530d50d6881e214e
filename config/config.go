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

// Package config 应用配置，使用ini文件
package config

import (
	"io"
	"log"
	"os"

	"gopkg.in/ini.v1"

	"github.com/rulego/rulego-hep/api/types"
)

type Config struct {
	// Server http服务器地址
	Server string `ini:"server"`
	// LogFile 日志文件，为空则输出到标准输出
	LogFile string `ini:"log_file"`
	// Debug 是否把规则链设置成调试模式
	Debug bool `ini:"debug"`
	// ChainFile 规则链文件
	ChainFile string `ini:"chain_file"`
	// Global 全局自定义配置，节点可以通过${global.xxx}方式取值
	Global types.Metadata `ini:"-"`
	Mqtt   Mqtt           `ini:"mqtt"`
	Store  Store          `ini:"store"`
}

// Mqtt mqtt接入配置
type Mqtt struct {
	Enabled      bool   `ini:"enabled"`
	Server       string `ini:"server"`
	Username     string `ini:"username"`
	Password     string `ini:"password"`
	EventTopic   string `ini:"event_topic"`
	VerdictTopic string `ini:"verdict_topic"`
	Qos          int    `ini:"qos"`
}

// Store 判决存储配置，Driver为空则不保存
type Store struct {
	Driver string `ini:"driver"`
	Dsn    string `ini:"dsn"`
}

// DefaultConfig 默认配置
var DefaultConfig = Config{
	Server:    ":9090",
	ChainFile: "./testdata/isrqq500.json",
	Mqtt: Mqtt{
		Server:       "tcp://127.0.0.1:1883",
		EventTopic:   "isrqq/events",
		VerdictTopic: "isrqq/verdicts",
	},
}

// Load 加载配置文件，没有配置的项使用默认值
func Load(file string) (Config, error) {
	c := DefaultConfig
	if file == "" {
		return c, nil
	}
	cfg, err := ini.Load(file)
	if err != nil {
		return c, err
	}
	if err := cfg.MapTo(&c); err != nil {
		return c, err
	}
	if section, err := cfg.GetSection("global"); err == nil {
		c.Global = section.KeysHash()
	}
	return c, nil
}

// InitLogger 初始化日志记录器，返回的io.Closer用于关闭日志文件
func InitLogger(c Config) (*log.Logger, io.Closer, error) {
	if c.LogFile == "" {
		return log.New(os.Stdout, "", log.LstdFlags), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(c.LogFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return nil, nil, err
	}
	return log.New(f, "", log.LstdFlags), f, nil
}
