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

const (
	fundingHedgeWeight = 0.4
	timeHedgeWeight    = 0.6
	fundingFloor       = 0.7
	fundingCeil        = 1.0
	glideMonths        = 180 // 15-year glide
)

// GlidePath shifts allocation from growth assets to liability-hedging assets
// as maturity nears (time_hedge) or the plan becomes better-funded
// (funding_hedge). Over-funded plans lock in gains; under-funded plans carry
// more equity risk.
type GlidePath struct{}

// NewGlidePath constructs the canonical GlidePath allocator.
func NewGlidePath() *GlidePath {
	return &GlidePath{}
}

func (GlidePath) Name() string { return "glide_path" }

func (GlidePath) Allocate(in Input) Weights {
	fundingHedge := 0.0
	if in.HasFundingRatio {
		fundingHedge = clamp((in.FundingRatio-fundingFloor)/(fundingCeil-fundingFloor), 0, 1)
	}

	timeHedge := clamp(1-float64(in.HorizonMonths)/glideMonths, 0, 1)

	hedge := fundingHedgeWeight*fundingHedge + timeHedgeWeight*timeHedge

	return Weights{
		"us_equity_total_market":   0.7 * (1 - hedge),
		"intl_equity_developed":    0.3 * (1 - hedge),
		"us_nominal_treasury_long": 0.8 * hedge,
		"us_tips_long":             0.2 * hedge,
	}
}
