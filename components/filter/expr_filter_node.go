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
//        "id": "s2",
//        "type": "exprFilter",
//        "name": "表达式过滤器",
//        "debugMode": false,
//        "configuration": {
//          "expr": "photons >= 2 && isrEnergy < 20"
//        }
//      }
import (
	"errors"
	"math"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/rulego/rulego-hep/api/types"
	"github.com/rulego/rulego-hep/hep"
	"github.com/rulego/rulego-hep/utils/maps"
)

// 表达式可以访问的变量
const (
	QuarkFlavourKey = "quarkFlavour"
	QuarkIndexKey   = "quarkIndex"
	IsrEnergyKey    = "isrEnergy"
	PhotonsKey      = "photons"
	NParticlesKey   = "nParticles"
	ParticlesKey    = "particles"
	RunKey          = "run"
	EventKey        = "event"
	MetadataKey     = "metadata"
)

func init() {
	Registry.Add(&ExprFilterNode{})
}

// ExprFilterNodeConfiguration 节点配置
type ExprFilterNodeConfiguration struct {
	// Expr 表达式
	Expr string
	// CollectionName MC粒子集合名称
	CollectionName string
}

// ExprFilterNode 使用expr表达式过滤事件
// 如果返回值`True`事件通过, `False`事件以 EXPRESSION_FALSE 原因被拒绝。
// 如果表达式执行失败则以 EXPRESSION_ERROR 原因发到`Failure`关系
// 通过`quarkFlavour`变量访问领头夸克PDG绝对值，没有夸克为0
// 通过`isrEnergy`变量访问前两个末态光子的能量之和
// 通过`photons`变量访问扫描窗口内找到的末态光子数量(0-2)
// 通过`nParticles`、`particles`变量访问粒子数量和粒子列表。例如:`particles[0].PDG == 11`
// 通过`run`、`event`变量访问运行号和事件号
// 通过`metadata`变量访问事件元数据。例如 `metadata.generator == 'whizard'`
type ExprFilterNode struct {
	//节点配置
	Config  ExprFilterNodeConfiguration
	program *vm.Program
	scanner *hep.Selector
}

// Type 组件类型
func (x *ExprFilterNode) Type() string {
	return "exprFilter"
}

func (x *ExprFilterNode) New() types.Node {
	return &ExprFilterNode{Config: ExprFilterNodeConfiguration{
		CollectionName: types.DefaultCollectionName,
	}}
}

// Init 初始化
func (x *ExprFilterNode) Init(ruleConfig types.Config, configuration types.Configuration) error {
	if err := maps.Map2Struct(configuration, &x.Config); err != nil {
		return err
	}
	if strings.TrimSpace(x.Config.Expr) == "" {
		return errors.New("expr can not be empty")
	}
	if x.Config.CollectionName == "" {
		x.Config.CollectionName = types.DefaultCollectionName
	}
	program, err := expr.Compile(x.Config.Expr, expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return err
	}
	x.program = program
	// 只用于计算中间结果，不做任何筛选
	x.scanner = hep.NewSelector(hep.FilterConfig{
		DesiredFlavour: hep.FlavourNone,
		ISRCut:         math.MaxFloat64,
		PhotonPolicy:   hep.PhotonPolicySum,
	})
	return nil
}

// OnEvent 处理事件
func (x *ExprFilterNode) OnEvent(ctx types.EventContext, evt *types.Event) types.Verdict {
	particles, err := evt.Collection(x.Config.CollectionName)
	if err != nil {
		return types.Failed(types.ReasonCollectionUnavailable, err)
	}
	out, err := vm.Run(x.program, x.env(evt, particles))
	if err != nil {
		return types.Failed(types.ReasonExpressionError, err)
	}
	if result, ok := out.(bool); ok && result {
		return types.Accepted()
	}
	return types.Rejected(types.ReasonExpressionFalse)
}

// Destroy 销毁
func (x *ExprFilterNode) Destroy() {
}

func (x *ExprFilterNode) env(evt *types.Event, particles []types.Particle) map[string]interface{} {
	summary, _ := x.scanner.Inspect(particles)
	metadata := make(map[string]interface{}, len(evt.Metadata))
	for k, v := range evt.Metadata {
		metadata[k] = v
	}
	return map[string]interface{}{
		QuarkFlavourKey: summary.Quark,
		QuarkIndexKey:   summary.QuarkIndex,
		IsrEnergyKey:    summary.ISREnergy,
		PhotonsKey:      summary.Photons.Count(),
		NParticlesKey:   len(particles),
		ParticlesKey:    particles,
		RunKey:          evt.RunNumber,
		EventKey:        evt.EventNumber,
		MetadataKey:     metadata,
	}
}
