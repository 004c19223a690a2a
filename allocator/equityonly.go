// Copyright 2021-2022
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package allocator

// EquityOnly ignores horizon and funding ratio entirely and stays
// permanently at the GlidePath's zero-hedge mix. It exists to show that
// Model's allocator handle is a genuine capability rather than a
// disguised GlidePath reference — swapping it in removes all liability
// hedging from every bucket in the run.
type EquityOnly struct{}

// NewEquityOnly constructs the always-max-equity allocator.
func NewEquityOnly() *EquityOnly {
	return &EquityOnly{}
}

func (EquityOnly) Name() string { return "equity_only" }

func (EquityOnly) Allocate(Input) Weights {
	return Weights{
		"us_equity_total_market":   0.7,
		"intl_equity_developed":    0.3,
		"us_nominal_treasury_long": 0,
		"us_tips_long":             0,
	}
}
