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

// Package rest HTTP事件接入端点
//
//	POST /api/v1/runs    开始一个运行，请求体为RunHeader
//	POST /api/v1/events  处理一个事件，请求体为Event，返回判决
//	GET  /api/v1/stats   统计数据
//	GET  /api/v1/chain   当前规则链定义
//	PUT  /api/v1/chain   重新加载规则链
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/rulego/rulego-hep/api/types"
	"github.com/rulego/rulego-hep/engine"
)

const (
	ContentTypeKey  = "Content-Type"
	JsonContextType = "application/json"
)

const (
	RunsPath   = "/api/v1/runs"
	EventsPath = "/api/v1/events"
	StatsPath  = "/api/v1/stats"
	ChainPath  = "/api/v1/chain"
)

// DefaultMaxBodySize 默认请求体大小上限，与批处理模式单行事件上限相同
const DefaultMaxBodySize = 16 * 1024 * 1024

// Processor 端点使用的处理器
type Processor interface {
	types.EventProcessor
	Stats() engine.Stats
	Definition() types.RuleChain
	Reload(def []byte) error
}

// Config Rest 服务配置
type Config struct {
	Addr        string
	CertFile    string
	CertKeyFile string
	// MaxBodySize 请求体大小上限，<=0 使用 DefaultMaxBodySize
	MaxBodySize int64
}

// Rest 接收端端点
type Rest struct {
	//配置
	Config    Config
	processor Processor
	logger    types.Logger
	//路由器
	router   *httprouter.Router
	server   *http.Server
	listener net.Listener
}

// New 创建Rest端点并注册路由
func New(config Config, processor Processor, logger types.Logger) *Rest {
	if config.MaxBodySize <= 0 {
		config.MaxBodySize = DefaultMaxBodySize
	}
	r := &Rest{
		Config:    config,
		processor: processor,
		logger:    types.NewLogger(logger),
		router:    httprouter.New(),
	}
	r.router.POST(RunsPath, r.handleRun)
	r.router.POST(EventsPath, r.handleEvent)
	r.router.GET(StatsPath, r.handleStats)
	r.router.GET(ChainPath, r.handleGetChain)
	r.router.PUT(ChainPath, r.handleReloadChain)
	r.router.PanicHandler = func(w http.ResponseWriter, req *http.Request, e interface{}) {
		r.logger.Printf("rest handler err :%v", e)
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
	return r
}

// Router 路由器，用于测试或者挂载到其他服务
func (r *Rest) Router() *httprouter.Router {
	return r.router
}

// Start 监听地址并在后台提供服务
func (r *Rest) Start() error {
	if r.server != nil {
		return errors.New("rest endpoint already started")
	}
	ln, err := net.Listen("tcp", r.Config.Addr)
	if err != nil {
		return err
	}
	r.listener = ln
	r.server = &http.Server{Handler: r.router}
	tls := r.Config.CertKeyFile != "" && r.Config.CertFile != ""
	if tls {
		r.logger.Printf("starting server with TLS on %s", ln.Addr())
	} else {
		r.logger.Printf("starting server on %s", ln.Addr())
	}
	go func(server *http.Server) {
		var err error
		if tls {
			err = server.ServeTLS(ln, r.Config.CertFile, r.Config.CertKeyFile)
		} else {
			err = server.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.logger.Printf("[WARN] rest server stopped: %v", err)
		}
	}(r.server)
	return nil
}

// Addr 实际监听地址，未启动时返回配置值
func (r *Rest) Addr() string {
	if r.listener != nil {
		return r.listener.Addr().String()
	}
	return r.Config.Addr
}

// Stop 优雅关闭服务
func (r *Rest) Stop(ctx context.Context) error {
	if r.server == nil {
		return nil
	}
	err := r.server.Shutdown(ctx)
	r.server = nil
	r.listener = nil
	return err
}

func (r *Rest) handleRun(w http.ResponseWriter, req *http.Request, _ httprouter.Params) {
	var run types.RunHeader
	if err := r.decodeBody(w, req, &run); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	r.processor.OnRunStart(run)
	writeJson(w, http.StatusOK, run)
}

func (r *Rest) handleEvent(w http.ResponseWriter, req *http.Request, _ httprouter.Params) {
	var evt types.Event
	if err := r.decodeBody(w, req, &evt); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	verdict := r.processor.OnEvent(req.Context(), &evt)
	writeJson(w, http.StatusOK, types.NewEventVerdict(&evt, verdict))
}

func (r *Rest) handleStats(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJson(w, http.StatusOK, r.processor.Stats())
}

func (r *Rest) handleGetChain(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJson(w, http.StatusOK, r.processor.Definition())
}

func (r *Rest) handleReloadChain(w http.ResponseWriter, req *http.Request, _ httprouter.Params) {
	def, err := io.ReadAll(http.MaxBytesReader(w, req.Body, r.Config.MaxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := r.processor.Reload(def); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	r.logger.Printf("rule chain %s reloaded", r.processor.Definition().RuleChain.ID)
	writeJson(w, http.StatusOK, r.processor.Definition())
}

func (r *Rest) decodeBody(w http.ResponseWriter, req *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, req.Body, r.Config.MaxBodySize)
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, statusCode int, err error) {
	writeJson(w, statusCode, errorResponse{Error: err.Error()})
}

func writeJson(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set(ContentTypeKey, JsonContextType)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}
