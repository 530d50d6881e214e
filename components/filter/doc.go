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

// Package filter provides event selection components for the rule engine.
//
// These components decide whether an event continues downstream:
//
// - IsrFlavourFilter: selects events by leading quark flavour and ISR photon energy
// - ExprFilter: selects events with an expr-lang expression over the event summary
//
// Each component is registered with the Registry, allowing them to be used
// within rule chains. A node returns a Verdict for every event; an accepted
// event flows to the next node of the chain, a rejected one stops there.
//
// You can use these components in your rule chain DSL file by referencing
// their Type. For example:
//
//	{
//	  "id": "s1",
//	  "type": "isrFlavourFilter",
//	  "name": "bb signal",
//	  "configuration": {
//	    "desiredFlavour": "b_quark",
//	    "isrCut": 35
//	  }
//	}
package filter

import "github.com/rulego/rulego-hep/api/types"

// Registry 过滤组件列表
var Registry = new(types.SafeComponentSlice)
