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

package types

import "errors"

var (
	// ErrCollectionUnavailable 事件中找不到指定名称的粒子集合
	ErrCollectionUnavailable = errors.New("collection not available")
	// ErrMalformedEvent 粒子集合长度不足以完成扫描
	ErrMalformedEvent = errors.New("malformed event")
	// ErrComponentExists 组件类型已经注册
	ErrComponentExists = errors.New("the component already exists")
	// ErrComponentNotFound 组件类型未注册
	ErrComponentNotFound = errors.New("component not found")
)
