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

package maps

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type nodeConfig struct {
	DesiredFlavour string
	IsrCut         float64
	Window         int
	Timeout        time.Duration
}

func TestMap2Struct(t *testing.T) {
	m := map[string]interface{}{
		"desiredFlavour": "c_quark",
		"isrCut":         float64(10),
		"window":         float64(12),
		"timeout":        "5s",
	}
	var c nodeConfig
	err := Map2Struct(m, &c)
	assert.Nil(t, err)
	assert.Equal(t, "c_quark", c.DesiredFlavour)
	assert.Equal(t, 10.0, c.IsrCut)
	assert.Equal(t, 12, c.Window)
	assert.Equal(t, 5*time.Second, c.Timeout)

	// defaults survive when the key is missing
	c = nodeConfig{DesiredFlavour: "b_quark", IsrCut: -1}
	err = Map2Struct(map[string]interface{}{}, &c)
	assert.Nil(t, err)
	assert.Equal(t, "b_quark", c.DesiredFlavour)
	assert.Equal(t, -1.0, c.IsrCut)

	err = Map2Struct(map[string]interface{}{"isrCut": "12.5"}, &c)
	assert.Nil(t, err)
	assert.Equal(t, 12.5, c.IsrCut)

	err = Map2Struct(map[string]interface{}{"timeout": "5invalid"}, &c)
	assert.NotNil(t, err)

	err = Map2Struct(m, c)
	assert.NotNil(t, err)

	err = Map2Struct("not a map", &c)
	assert.NotNil(t, err)
}
