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

// Package allocator holds the pluggable allocation policies a Bucket
// consults every projected month. An Allocator is a pure function of
// horizon and funding ratio; it owns no state and performs no I/O.
package allocator

import "math"

// InfiniteHorizon represents a bucket with no maturity, such as the surplus
// bucket. It is a large-but-finite horizon so time_hedge comfortably clamps
// to its floor without special-casing infinity in glide-path arithmetic.
const InfiniteHorizon = math.MaxInt32

// Input is what a Bucket hands its Allocator each projected month.
type Input struct {
	HorizonMonths int
	FundingRatio  float64
	// HasFundingRatio distinguishes "funding ratio is zero" from "funding
	// ratio is undefined" (liability PV is zero).
	HasFundingRatio bool
}

// Weights maps asset class name to allocation weight. Weights are
// non-negative and sum to 1 within 1e-9.
type Weights map[string]float64

// Allocator is the strategy capability a Bucket holds a handle to.
// Implementations (GlidePath, EquityOnly) are interchangeable tagged
// variants — Model never type-switches on which one it has.
type Allocator interface {
	Name() string
	Allocate(in Input) Weights
}

func clamp(n, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, n))
}
