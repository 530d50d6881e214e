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
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/rulego-hep/api/types"
	"github.com/rulego/rulego-hep/components/filter"
	"github.com/rulego/rulego-hep/test"
)

var twoNodeChain = `
{
  "ruleChain": {
    "id": "rule01",
    "name": "bb selection with user cut"
  },
  "metadata": {
    "nodes": [
      {
        "id": "s1",
        "type": "isrFlavourFilter",
        "name": "bb",
        "debugMode": true,
        "configuration": {
          "desiredFlavour": "b_quark",
          "isrCut": "${global.isrCut}"
        }
      },
      {
        "id": "s2",
        "type": "exprFilter",
        "name": "at least one photon",
        "configuration": {
          "expr": "photons >= 1"
        }
      }
    ]
  }
}
`

func loadTestChain(t *testing.T) []byte {
	buf, err := os.ReadFile("../testdata/isrqq500.json")
	require.Nil(t, err)
	return buf
}

func TestProcessorFromFile(t *testing.T) {
	p, err := New("", loadTestChain(t), types.WithLogger(&test.Logger{}))
	require.Nil(t, err)
	defer p.Stop()
	assert.Equal(t, "isrqq500", p.Id())

	ctx := context.Background()
	p.OnRunStart(types.RunHeader{RunNumber: 1})

	v := p.OnEvent(ctx, test.Event(0, test.Particles(12, test.Quark(5), test.Photon(10), test.Photon(5))))
	assert.True(t, v.Accept)

	v = p.OnEvent(ctx, test.Event(1, test.Particles(12, test.Quark(4))))
	assert.Equal(t, types.ReasonFlavourMismatch, v.Reason)
	assert.Equal(t, "s1", v.NodeId)

	v = p.OnEvent(ctx, test.Event(2, test.Particles(12, test.Quark(5), test.Photon(30), test.Photon(20))))
	assert.Equal(t, types.ReasonISREnergyAboveCut, v.Reason)

	v = p.OnEvent(ctx, types.NewEvent(1, 3, nil))
	assert.Equal(t, types.ReasonCollectionUnavailable, v.Reason)
	assert.False(t, v.Processed())

	stats := p.Stats()
	assert.Equal(t, int64(1), stats.Runs)
	assert.Equal(t, int64(4), stats.Events)
	assert.Equal(t, int64(1), stats.Accepted)
	assert.Equal(t, int64(1), stats.Unprocessed)
	assert.Equal(t, int64(1), stats.Rejected["FLAVOUR_MISMATCH"])
	assert.Equal(t, int64(1), stats.Rejected["ISR_ENERGY_ABOVE_CUT"])

	node, ok := p.GetNodeById("s1")
	require.True(t, ok)
	runs, events := node.Node.(*filter.IsrFlavourFilterNode).Counters()
	assert.Equal(t, int64(1), runs)
	assert.Equal(t, int64(4), events)
}

func TestProcessorChain(t *testing.T) {
	var mu sync.Mutex
	var debugNodes []string
	var verdicts []types.Verdict
	p, err := New("rule02", []byte(twoNodeChain),
		types.WithLogger(&test.Logger{}),
		types.WithProperties(types.Metadata{"isrCut": "20"}),
		types.WithOnDebug(func(ruleChainId string, nodeId string, evt *types.Event, verdict types.Verdict) {
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, "rule02", ruleChainId)
			debugNodes = append(debugNodes, nodeId)
		}),
		types.WithOnVerdict(func(evt *types.Event, verdict types.Verdict) {
			mu.Lock()
			defer mu.Unlock()
			verdicts = append(verdicts, verdict)
		}),
	)
	require.Nil(t, err)
	defer p.Stop()
	assert.Equal(t, "rule02", p.Id())

	node, _ := p.GetNodeById("s1")
	assert.Equal(t, 20.0, node.Node.(*filter.IsrFlavourFilterNode).Selector().Config().ISRCut)

	// passes s1, fails s2: no photon
	v := p.OnEvent(nil, test.Event(0, test.Particles(12, test.Quark(5))))
	assert.Equal(t, types.ReasonExpressionFalse, v.Reason)
	assert.Equal(t, "s2", v.NodeId)

	v = p.OnEvent(context.Background(), test.Event(1, test.Particles(12, test.Quark(5), test.Photon(3))))
	assert.True(t, v.Accept)

	v = p.OnEvent(context.Background(), test.Event(2, test.Particles(12, test.Quark(5), test.Photon(30))))
	assert.Equal(t, types.ReasonISREnergyAboveCut, v.Reason)

	mu.Lock()
	defer mu.Unlock()
	// only s1 is in debug mode
	assert.Equal(t, []string{"s1", "s1", "s1"}, debugNodes)
	assert.Len(t, verdicts, 3)
	assert.True(t, verdicts[1].Accept)
}

func TestProcessorEventId(t *testing.T) {
	p, err := New("", loadTestChain(t), types.WithLogger(&test.Logger{}))
	require.Nil(t, err)
	evt := &types.Event{Collections: map[string][]types.Particle{
		types.DefaultCollectionName: test.Particles(12, test.Quark(5)),
	}}
	p.OnEvent(context.Background(), evt)
	assert.NotEqual(t, "", evt.Id)
	assert.NotNil(t, evt.Metadata)
}

func TestProcessorNewError(t *testing.T) {
	cases := map[string]string{
		"InvalidJson":   `{"ruleChain":`,
		"NoNodes":       `{"ruleChain":{"id":"r"},"metadata":{"nodes":[]}}`,
		"NoType":        `{"ruleChain":{"id":"r"},"metadata":{"nodes":[{"id":"s1"}]}}`,
		"DuplicateId":   `{"ruleChain":{"id":"r"},"metadata":{"nodes":[{"id":"s1","type":"exprFilter","configuration":{"expr":"true"}},{"id":"s1","type":"exprFilter","configuration":{"expr":"true"}}]}}`,
		"UnknownType":   `{"ruleChain":{"id":"r"},"metadata":{"nodes":[{"id":"s1","type":"jsFilter"}]}}`,
		"InitFailure":   `{"ruleChain":{"id":"r"},"metadata":{"nodes":[{"id":"s1","type":"exprFilter","configuration":{"expr":""}}]}}`,
		"PolicyFailure": `{"ruleChain":{"id":"r"},"metadata":{"nodes":[{"id":"s1","type":"isrFlavourFilter","configuration":{"photonPolicy":"x"}}]}}`,
	}
	for name, def := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New("", []byte(def), types.WithLogger(&test.Logger{}))
			assert.NotNil(t, err)
		})
	}

	_, err := New("", []byte(cases["UnknownType"]))
	assert.True(t, errors.Is(err, types.ErrComponentNotFound))
}

func TestProcessorReloadAndStop(t *testing.T) {
	p, err := New("", loadTestChain(t), types.WithLogger(&test.Logger{}))
	require.Nil(t, err)
	charm := test.Event(0, test.Particles(12, test.Quark(4)))
	assert.False(t, p.OnEvent(context.Background(), charm).Accept)

	err = p.Reload([]byte(`{"ruleChain":{"id":"other"},"metadata":{"nodes":[{"id":"c1","type":"isrFlavourFilter","configuration":{"desiredFlavour":"c_quark"}}]}}`))
	require.Nil(t, err)
	assert.Equal(t, "isrqq500", p.Id())
	assert.True(t, p.OnEvent(context.Background(), charm).Accept)
	assert.Equal(t, int64(2), p.Stats().Events)

	assert.NotNil(t, p.Reload([]byte(`{}`)))
	_, ok := p.GetNodeById("c1")
	assert.True(t, ok)

	p.Stop()
	v := p.OnEvent(context.Background(), charm)
	assert.True(t, errors.Is(v.Err, ErrStopped))
	assert.Equal(t, int64(2), p.Stats().Events)
}

func TestRegistry(t *testing.T) {
	components := Registry.GetComponents()
	assert.Contains(t, components, "isrFlavourFilter")
	assert.Contains(t, components, "exprFilter")

	err := Registry.Register(&filter.ExprFilterNode{})
	assert.True(t, errors.Is(err, types.ErrComponentExists))

	registry := new(RuleComponentRegistry)
	require.Nil(t, registry.Register(&filter.ExprFilterNode{}))
	node, err := registry.NewNode("exprFilter")
	require.Nil(t, err)
	assert.Equal(t, "exprFilter", node.Type())
	require.Nil(t, registry.Unregister("exprFilter"))
	_, err = registry.NewNode("exprFilter")
	assert.True(t, errors.Is(err, types.ErrComponentNotFound))
	assert.NotNil(t, registry.Unregister("exprFilter"))
}

func TestProcessorComponentsRegistry(t *testing.T) {
	registry := new(RuleComponentRegistry)
	require.Nil(t, registry.Register(&filter.ExprFilterNode{}))
	exprChain := `{"ruleChain":{"id":"r"},"metadata":{"nodes":[{"id":"s1","type":"exprFilter","configuration":{"expr":"quarkFlavour == 4"}}]}}`

	p, err := New("", []byte(exprChain), types.WithLogger(&test.Logger{}), types.WithComponentsRegistry(registry))
	require.Nil(t, err)
	defer p.Stop()
	assert.True(t, p.OnEvent(context.Background(), test.Event(0, test.Particles(12, test.Quark(-4)))).Accept)

	// the injected registry has no isrFlavourFilter
	_, err = New("", loadTestChain(t), types.WithLogger(&test.Logger{}), types.WithComponentsRegistry(registry))
	assert.True(t, errors.Is(err, types.ErrComponentNotFound))
}

func TestJsonParser(t *testing.T) {
	parser := &JsonParser{}
	def, err := parser.DecodeRuleChain(loadTestChain(t))
	require.Nil(t, err)
	assert.Equal(t, "isrqq500", def.RuleChain.ID)
	require.Len(t, def.Metadata.Nodes, 1)
	assert.Equal(t, "isrFlavourFilter", def.Metadata.Nodes[0].Type)
	assert.Equal(t, float64(35), def.Metadata.Nodes[0].Configuration["isrCut"])

	buf, err := parser.EncodeRuleChain(def)
	require.Nil(t, err)
	again, err := parser.DecodeRuleChain(buf)
	require.Nil(t, err)
	assert.Equal(t, def.RuleChain, again.RuleChain)

	node, err := parser.DecodeRuleNode([]byte(`{"id":"s9","type":"exprFilter","debugMode":true}`))
	require.Nil(t, err)
	assert.Equal(t, "s9", node.Id)
	assert.True(t, node.DebugMode)
}
