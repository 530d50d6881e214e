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

// Package hep implements the quark-flavour and ISR-photon event selection.
//
// The selection scans the first particles of a generator-level collection:
//
//   - the first quark (|PDG| in 1..5) among the first 12 particles fixes the
//     event flavour, which must match the configured Flavour;
//   - when an ISR cut is configured, the energies of the first two final-state
//     photons (PDG 22, status 1) among the first 10 particles are summed and
//     the event is rejected if the sum exceeds the cut.
//
// Selector is a pure function of its FilterConfig and the particle list; the
// lifecycle and counters of a processing run live in the isrFlavourFilter
// component of package components/filter.
package hep
