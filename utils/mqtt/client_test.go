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

package mqtt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClientID(t *testing.T) {
	assert.Equal(t, "fixed", ClientID("fixed"))
	id := ClientID("")
	assert.True(t, strings.HasPrefix(id, "isrqq/"))
	assert.Len(t, id, len("isrqq/")+8)
	assert.NotEqual(t, id, ClientID(""))
}

func TestClientOptions(t *testing.T) {
	b := &Client{handlers: make(map[string]Handler)}
	opts, err := b.clientOptions(Config{Server: "tcp://127.0.0.1:1883", Username: "u", ClientID: "c1"})
	assert.Nil(t, err)
	assert.Equal(t, "c1", opts.ClientID)
	assert.Equal(t, "u", opts.Username)
	assert.Equal(t, time.Second*60, opts.MaxReconnectInterval)
	assert.Len(t, opts.Servers, 1)
	// handlers publish and wait on the token, so dispatch must not hold the router
	assert.False(t, opts.Order)

	_, err = b.clientOptions(Config{Server: "tcp://127.0.0.1:1883", CAFile: "non-existent-ca.pem"})
	assert.NotNil(t, err)
}

func TestNewTLSConfig(t *testing.T) {
	tests := []struct {
		name     string
		caFile   string
		certFile string
		keyFile  string
		wantNil  bool
		wantErr  bool
	}{
		{name: "no TLS config", wantNil: true},
		{name: "invalid CA file", caFile: "non-existent-ca.pem", wantNil: true, wantErr: true},
		{name: "invalid key pair", certFile: "non-existent.pem", keyFile: "non-existent.key", wantNil: true, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tlsConfig, err := newTLSConfig(tt.caFile, tt.certFile, tt.keyFile)
			assert.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, tt.wantNil, tlsConfig == nil)
		})
	}
}
