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

// isrqq 按领头夸克味道和ISR光子能量筛选模拟事件
//
// 批处理模式：
//
//	isrqq -chain ./testdata/isrqq500.json -events ./testdata/events.jsonl
//
// 服务模式：
//
//	isrqq -c ./config.ini -serve
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rulego/rulego-hep/api/types"
	"github.com/rulego/rulego-hep/config"
	"github.com/rulego/rulego-hep/endpoint/mqtt"
	"github.com/rulego/rulego-hep/endpoint/rest"
	"github.com/rulego/rulego-hep/engine"
	"github.com/rulego/rulego-hep/store"
	mqttClient "github.com/rulego/rulego-hep/utils/mqtt"
)

const (
	version = "1.0.0"
)

// 单行事件最大长度
const maxLineSize = 16 * 1024 * 1024

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatal("error:", err)
	}
}

type options struct {
	//是否是查询版本
	ver bool
	//配置文件
	configFile string
	chainFile  string
	eventsFile string
	serve      bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("isrqq", flag.ContinueOnError)
	fs.StringVar(&o.configFile, "c", "", "配置文件")
	fs.StringVar(&o.chainFile, "chain", "", "规则链文件，覆盖配置文件的chain_file")
	fs.StringVar(&o.eventsFile, "events", "", "事件文件，每行一个json事件，-表示标准输入")
	fs.BoolVar(&o.serve, "serve", false, "启动rest和mqtt接入服务")
	fs.BoolVar(&o.ver, "v", false, "打印版本")
	err := fs.Parse(args)
	return o, err
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}
	if o.ver {
		_, err = fmt.Fprintf(stdout, "isrqq v%s\n", version)
		return err
	}
	if !o.serve && o.eventsFile == "" {
		return errors.New("either -events or -serve is required")
	}

	c, err := config.Load(o.configFile)
	if err != nil {
		return err
	}
	if o.chainFile != "" {
		c.ChainFile = o.chainFile
	}
	logger, closer, err := config.InitLogger(c)
	if err != nil {
		return err
	}
	defer closer.Close()
	logger.Printf("use config file=%s chain file=%s", o.configFile, c.ChainFile)

	var verdictStore *store.Store
	if c.Store.Driver != "" {
		if verdictStore, err = store.Open(c.Store.Driver, c.Store.Dsn); err != nil {
			return err
		}
		defer verdictStore.Close()
	}

	p, err := newProcessor(c, logger, verdictStore)
	if err != nil {
		return err
	}
	defer p.Stop()

	if o.serve {
		return serve(c, p, logger)
	}
	in := stdin
	if o.eventsFile != "-" {
		f, err := os.Open(o.eventsFile)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	if err := processEvents(context.Background(), p, in, logger); err != nil {
		return err
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(p.Stats())
}

func newProcessor(c config.Config, logger *log.Logger, verdictStore *store.Store) (*engine.Processor, error) {
	def, err := os.ReadFile(c.ChainFile)
	if err != nil {
		return nil, err
	}
	if c.Debug {
		if def, err = debugChain(def); err != nil {
			return nil, err
		}
	}
	opts := []types.Option{
		types.WithLogger(logger),
		types.WithProperties(c.Global),
		types.WithOnDebug(func(ruleChainId string, nodeId string, evt *types.Event, verdict types.Verdict) {
			logger.Printf("[DEBUG] chain=%s node=%s event=%d run=%d verdict=%s", ruleChainId, nodeId, evt.EventNumber, evt.RunNumber, verdict)
		}),
	}
	if verdictStore != nil {
		opts = append(opts, types.WithOnVerdict(func(evt *types.Event, verdict types.Verdict) {
			if err := verdictStore.Save(context.Background(), evt, verdict); err != nil {
				logger.Printf("[WARN] save verdict of %s: %v", evt.Id, err)
			}
		}))
	}
	return engine.New("", def, opts...)
}

// debugChain 把规则链设置成调试模式
func debugChain(def []byte) ([]byte, error) {
	parser := &engine.JsonParser{}
	chain, err := parser.DecodeRuleChain(def)
	if err != nil {
		return nil, err
	}
	chain.RuleChain.DebugMode = true
	return parser.EncodeRuleChain(chain)
}

// processEvents 逐行处理事件，运行号变化时通知新运行开始。无法解析的行记录日志后跳过
func processEvents(ctx context.Context, p types.EventProcessor, r io.Reader, logger types.Logger) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	line := 0
	lastRun, started := 0, false
	for scanner.Scan() {
		line++
		buf := scanner.Bytes()
		if len(buf) == 0 {
			continue
		}
		var evt types.Event
		if err := json.Unmarshal(buf, &evt); err != nil {
			logger.Printf("[WARN] line %d: drop malformed event: %v", line, err)
			continue
		}
		if !started || evt.RunNumber != lastRun {
			p.OnRunStart(types.RunHeader{RunNumber: evt.RunNumber})
			lastRun, started = evt.RunNumber, true
		}
		p.OnEvent(ctx, &evt)
	}
	return scanner.Err()
}

func serve(c config.Config, p *engine.Processor, logger *log.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	restEndpoint := rest.New(rest.Config{Addr: c.Server}, p, logger)
	if err := restEndpoint.Start(); err != nil {
		return err
	}
	var mqttEndpoint *mqtt.Mqtt
	if c.Mqtt.Enabled {
		mqttEndpoint = mqtt.New(mqtt.Config{
			Config: mqttClient.Config{
				Server:   c.Mqtt.Server,
				Username: c.Mqtt.Username,
				Password: c.Mqtt.Password,
			},
			EventTopic:   c.Mqtt.EventTopic,
			VerdictTopic: c.Mqtt.VerdictTopic,
			Qos:          byte(c.Mqtt.Qos),
		}, p, logger)
		connectCtx, connectCancel := context.WithTimeout(ctx, 30*time.Second)
		err := mqttEndpoint.Start(connectCtx)
		connectCancel()
		if err != nil {
			_ = restEndpoint.Stop(context.Background())
			return err
		}
	}

	sigs := make(chan os.Signal, 1)
	// 监听系统信号，包括中断信号和终止信号
	signal.Notify(sigs, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	if mqttEndpoint != nil {
		_ = mqttEndpoint.Close()
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	err := restEndpoint.Stop(shutdownCtx)
	stats, _ := json.Marshal(p.Stats())
	logger.Printf("stopped server, stats=%s", stats)
	return err
}
