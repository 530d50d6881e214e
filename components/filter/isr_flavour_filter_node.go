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

package filter

//规则链节点配置示例：
//{
//        "id": "s1",
//        "type": "isrFlavourFilter",
//        "name": "QQ+ISR 500GeV 信号筛选",
//        "debugMode": false,
//        "configuration": {
//          "desiredFlavour": "b_quark",
//          "isrCut": 35,
//          "collectionName": "MCParticlesSkimmed"
//        }
//      }
import (
	"fmt"
	"sync/atomic"

	"github.com/rulego/rulego-hep/api/types"
	"github.com/rulego/rulego-hep/hep"
	"github.com/rulego/rulego-hep/utils/maps"
)

const (
	// 诊断日志采样间隔
	configLogInterval = 2000
	eventLogInterval  = 100
)

func init() {
	Registry.Add(&IsrFlavourFilterNode{})
}

// IsrFlavourFilterNodeConfiguration 节点配置
type IsrFlavourFilterNodeConfiguration struct {
	// DesiredFlavour 期望的领头夸克味道：d_quark,u_quark,s_quark,c_quark,b_quark,light_quark,none
	// 其他值不按味道筛选
	DesiredFlavour string
	// IsrCut 前两个末态光子能量之和的上限(GeV)，-1 表示不截断
	IsrCut float64
	// CollectionName MC粒子集合名称
	CollectionName string
	// PhotonPolicy 末态光子少于两个时的处理策略：sum,skip,reject
	PhotonPolicy string
	// StrictLength 粒子集合短于扫描窗口时以 MALFORMED_EVENT 拒绝，否则只扫描已有的粒子
	StrictLength bool
}

// IsrFlavourFilterNode 从 QQ+ISR 样本中筛选 QQ 信号事件
// 领头夸克味道不符合、或者ISR光子能量超过阈值的事件会被拒绝，通过`False`关系输出
// 找不到粒子集合的事件不被处理，通过`Failure`关系输出
// 通过的事件通过`True`关系输出
type IsrFlavourFilterNode struct {
	//节点配置
	Config   IsrFlavourFilterNodeConfiguration
	selector *hep.Selector
	logger   types.Logger
	nRun     int64
	nEvt     int64
}

// Type 组件类型
func (x *IsrFlavourFilterNode) Type() string {
	return "isrFlavourFilter"
}

func (x *IsrFlavourFilterNode) New() types.Node {
	return &IsrFlavourFilterNode{Config: IsrFlavourFilterNodeConfiguration{
		DesiredFlavour: hep.FlavourBottom.String(),
		IsrCut:         hep.ISRCutDisabled,
		CollectionName: types.DefaultCollectionName,
		PhotonPolicy:   hep.PhotonPolicySum.String(),
		StrictLength:   true,
	}}
}

// Init 初始化
func (x *IsrFlavourFilterNode) Init(ruleConfig types.Config, configuration types.Configuration) error {
	if err := maps.Map2Struct(configuration, &x.Config); err != nil {
		return err
	}
	x.logger = types.NewLogger(ruleConfig.Logger)
	if x.Config.CollectionName == "" {
		x.Config.CollectionName = types.DefaultCollectionName
	}
	flavour, ok := hep.ParseFlavour(x.Config.DesiredFlavour)
	if !ok {
		x.logger.Printf("[WARN] isrFlavourFilter: unknown desiredFlavour %q, flavour selection disabled", x.Config.DesiredFlavour)
	}
	policy, err := hep.ParsePhotonPolicy(x.Config.PhotonPolicy)
	if err != nil {
		return err
	}
	x.selector = hep.NewSelector(hep.FilterConfig{
		DesiredFlavour: flavour,
		ISRCut:         x.Config.IsrCut,
		PhotonPolicy:   policy,
		StrictLength:   x.Config.StrictLength,
	})
	atomic.StoreInt64(&x.nRun, 0)
	atomic.StoreInt64(&x.nEvt, 0)
	x.printParameters()
	return nil
}

// OnRunStart 新的运行开始
func (x *IsrFlavourFilterNode) OnRunStart(run types.RunHeader) {
	atomic.AddInt64(&x.nRun, 1)
}

// OnEvent 处理事件
func (x *IsrFlavourFilterNode) OnEvent(ctx types.EventContext, evt *types.Event) types.Verdict {
	n := atomic.AddInt64(&x.nEvt, 1) - 1
	debug := ctx != nil && ctx.IsDebugMode()

	particles, err := evt.Collection(x.Config.CollectionName)
	if err != nil {
		x.logger.Printf("[WARN] %s collection not available", x.Config.CollectionName)
		return types.Failed(types.ReasonCollectionUnavailable, err)
	}

	summary, verdict := x.selector.Inspect(particles)
	if debug && n%configLogInterval == 0 {
		x.logger.Printf("[DEBUG] Target flavour:%s", x.Config.DesiredFlavour)
		x.logger.Printf("[DEBUG] Scanned PDG:%d", summary.Quark)
		if summary.ISRApplied {
			x.logger.Printf("[DEBUG] K_reco %g", summary.ISREnergy)
		}
	}
	if verdict.Err != nil {
		x.logger.Printf("[WARN] event %d in run %d: %v", evt.EventNumber, evt.RunNumber, verdict.Err)
	}
	if debug && verdict.Accept && n%eventLogInterval == 0 {
		x.logger.Printf("[DEBUG] processing event: %d in run: %d", evt.EventNumber, evt.RunNumber)
	}
	return verdict
}

// Counters 返回已处理的运行数和事件数
func (x *IsrFlavourFilterNode) Counters() (runs int64, events int64) {
	return atomic.LoadInt64(&x.nRun), atomic.LoadInt64(&x.nEvt)
}

// Selector 返回筛选器
func (x *IsrFlavourFilterNode) Selector() *hep.Selector {
	return x.selector
}

// Destroy 销毁
func (x *IsrFlavourFilterNode) Destroy() {
}

func (x *IsrFlavourFilterNode) printParameters() {
	isrCut := "disabled"
	if x.Config.IsrCut != hep.ISRCutDisabled {
		isrCut = fmt.Sprintf("%g GeV", x.Config.IsrCut)
	}
	x.logger.Printf("isrFlavourFilter parameters: desiredFlavour=%s isrCut=%s collectionName=%s photonPolicy=%s strictLength=%t",
		x.Config.DesiredFlavour, isrCut, x.Config.CollectionName, x.Config.PhotonPolicy, x.Config.StrictLength)
}
