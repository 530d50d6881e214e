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

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const iniFile = `
server = :9191
debug = true
chain_file = ./chains/bb.json

[global]
isrCut = 35

[mqtt]
enabled = true
server = tcp://broker:1883
event_topic = hep/events

[store]
driver = sqlite
dsn = file:verdicts.db
`

func TestLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.ini")
	require.Nil(t, os.WriteFile(file, []byte(iniFile), 0644))

	c, err := Load(file)
	require.Nil(t, err)
	assert.Equal(t, ":9191", c.Server)
	assert.True(t, c.Debug)
	assert.Equal(t, "./chains/bb.json", c.ChainFile)
	assert.Equal(t, "35", c.Global["isrCut"])
	assert.True(t, c.Mqtt.Enabled)
	assert.Equal(t, "tcp://broker:1883", c.Mqtt.Server)
	assert.Equal(t, "hep/events", c.Mqtt.EventTopic)
	// not in file, keeps default
	assert.Equal(t, "isrqq/verdicts", c.Mqtt.VerdictTopic)
	assert.Equal(t, "sqlite", c.Store.Driver)
	assert.Equal(t, "file:verdicts.db", c.Store.Dsn)
}

func TestLoadDefault(t *testing.T) {
	c, err := Load("")
	require.Nil(t, err)
	assert.Equal(t, DefaultConfig.Server, c.Server)
	assert.False(t, c.Mqtt.Enabled)

	_, err = Load(filepath.Join(t.TempDir(), "missing.ini"))
	assert.NotNil(t, err)
}

func TestInitLogger(t *testing.T) {
	logger, closer, err := InitLogger(Config{})
	require.Nil(t, err)
	assert.NotNil(t, logger)
	assert.Nil(t, closer.Close())

	file := filepath.Join(t.TempDir(), "isrqq.log")
	logger, closer, err = InitLogger(Config{LogFile: file})
	require.Nil(t, err)
	logger.Printf("[WARN] %s collection not available", "MCParticlesSkimmed")
	require.Nil(t, closer.Close())
	buf, err := os.ReadFile(file)
	require.Nil(t, err)
	assert.True(t, strings.Contains(string(buf), "collection not available"))

	_, _, err = InitLogger(Config{LogFile: filepath.Join(t.TempDir(), "no", "such", "dir.log")})
	assert.NotNil(t, err)
}
