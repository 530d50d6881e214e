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

package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/rulego-hep/api/types"
	"github.com/rulego/rulego-hep/engine"
	"github.com/rulego/rulego-hep/test"
)

const chain = `{"ruleChain":{"id":"bb"},"metadata":{"nodes":[{"id":"s1","type":"isrFlavourFilter","configuration":{"desiredFlavour":"b_quark","isrCut":35}}]}}`

func newRest(t *testing.T) (*Rest, *engine.Processor) {
	logger := &test.Logger{}
	p, err := engine.New("", []byte(chain), types.WithLogger(logger))
	require.Nil(t, err)
	return New(Config{Addr: "127.0.0.1:0"}, p, logger), p
}

func serve(r *Rest, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(ContentTypeKey, JsonContextType)
	w := httptest.NewRecorder()
	r.Router().ServeHTTP(w, req)
	return w
}

func TestRestEvents(t *testing.T) {
	r, p := newRest(t)
	defer p.Stop()

	w := serve(r, http.MethodPost, RunsPath, `{"runNumber":3,"detector":"ILD"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	evt, err := json.Marshal(test.Event(1, test.Particles(12, test.Quark(5), test.Photon(10), test.Photon(5))))
	require.Nil(t, err)
	w = serve(r, http.MethodPost, EventsPath, string(evt))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, JsonContextType, w.Header().Get(ContentTypeKey))
	var ev types.EventVerdict
	require.Nil(t, json.Unmarshal(w.Body.Bytes(), &ev))
	assert.True(t, ev.Accept)
	assert.Equal(t, 1, ev.EventNumber)
	assert.NotEqual(t, "", ev.EventId)

	evt, _ = json.Marshal(test.Event(2, test.Particles(12, test.Quark(2))))
	w = serve(r, http.MethodPost, EventsPath, string(evt))
	require.Nil(t, json.Unmarshal(w.Body.Bytes(), &ev))
	assert.False(t, ev.Accept)
	assert.Equal(t, types.ReasonFlavourMismatch, ev.Reason)
	assert.Contains(t, w.Body.String(), `"reason":"FLAVOUR_MISMATCH"`)

	w = serve(r, http.MethodGet, StatsPath, "")
	assert.Equal(t, http.StatusOK, w.Code)
	var stats engine.Stats
	require.Nil(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.Runs)
	assert.Equal(t, int64(2), stats.Events)
	assert.Equal(t, int64(1), stats.Accepted)
	assert.Equal(t, int64(1), stats.Rejected["FLAVOUR_MISMATCH"])
}

func TestRestBadRequest(t *testing.T) {
	r, p := newRest(t)
	defer p.Stop()

	w := serve(r, http.MethodPost, EventsPath, `{"collections":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"error"`)

	w = serve(r, http.MethodPost, RunsPath, `[1,2]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodGet, EventsPath, "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, int64(0), p.Stats().Events)
}

func TestRestBodyLimit(t *testing.T) {
	logger := &test.Logger{}
	p, err := engine.New("", []byte(chain), types.WithLogger(logger))
	require.Nil(t, err)
	defer p.Stop()
	assert.Equal(t, int64(DefaultMaxBodySize), New(Config{}, p, logger).Config.MaxBodySize)

	r := New(Config{MaxBodySize: 512}, p, logger)
	evt, _ := json.Marshal(test.Event(1, test.Particles(50, test.Quark(5))))
	require.Greater(t, len(evt), 512)
	w := serve(r, http.MethodPost, EventsPath, string(evt))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "request body too large")
	assert.Equal(t, int64(0), p.Stats().Events)

	w = serve(r, http.MethodPut, ChainPath, string(evt))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "bb", p.Definition().RuleChain.ID)

	small, _ := json.Marshal(test.Event(2, test.Particles(2, test.Quark(5))))
	w = serve(r, http.MethodPost, EventsPath, string(small))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRestChain(t *testing.T) {
	r, p := newRest(t)
	defer p.Stop()

	w := serve(r, http.MethodGet, ChainPath, "")
	assert.Equal(t, http.StatusOK, w.Code)
	var def types.RuleChain
	require.Nil(t, json.Unmarshal(w.Body.Bytes(), &def))
	assert.Equal(t, "bb", def.RuleChain.ID)

	w = serve(r, http.MethodPut, ChainPath, `{"ruleChain":{"id":"uu"},"metadata":{"nodes":[{"id":"s1","type":"isrFlavourFilter","configuration":{"desiredFlavour":"u_quark"}}]}}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "uu", p.Definition().RuleChain.ID)

	w = serve(r, http.MethodPut, ChainPath, `{"ruleChain":{"id":"x"},"metadata":{"nodes":[]}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "uu", p.Definition().RuleChain.ID)
}

func TestRestStartStop(t *testing.T) {
	r, p := newRest(t)
	defer p.Stop()
	require.Nil(t, r.Start())
	assert.NotNil(t, r.Start())

	resp, err := http.Get("http://" + r.Addr() + StatsPath)
	require.Nil(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Nil(t, r.Stop(context.Background()))
	assert.Nil(t, r.Stop(context.Background()))
	assert.Equal(t, "127.0.0.1:0", r.Addr())
}
