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
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rulego/rulego-hep/api/types"
)

// JsonParser Json
type JsonParser struct {
}

// DecodeRuleChain 通过json解析规则链结构体
func (p *JsonParser) DecodeRuleChain(rootRuleChain []byte) (types.RuleChain, error) {
	var def types.RuleChain
	if err := json.Unmarshal(rootRuleChain, &def); err != nil {
		return def, err
	}
	return def, validate(def)
}

// DecodeRuleNode 通过json解析节点结构体
func (p *JsonParser) DecodeRuleNode(dsl []byte) (types.RuleNode, error) {
	var def types.RuleNode
	err := json.Unmarshal(dsl, &def)
	return def, err
}

// EncodeRuleChain 把规则链结构体编码成格式化的json
func (p *JsonParser) EncodeRuleChain(def interface{}) ([]byte, error) {
	return json.MarshalIndent(def, "", "  ")
}

func validate(def types.RuleChain) error {
	if len(def.Metadata.Nodes) == 0 {
		return errors.New("rule chain has no nodes")
	}
	seen := make(map[string]struct{}, len(def.Metadata.Nodes))
	for i, node := range def.Metadata.Nodes {
		if node == nil {
			return fmt.Errorf("node %d is null", i)
		}
		if node.Id == "" {
			return fmt.Errorf("node %d has no id", i)
		}
		if node.Type == "" {
			return fmt.Errorf("node %s has no type", node.Id)
		}
		if _, ok := seen[node.Id]; ok {
			return fmt.Errorf("duplicate node id %s", node.Id)
		}
		seen[node.Id] = struct{}{}
	}
	return nil
}
