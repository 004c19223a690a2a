// Copyright 2021-2022
// SPDX-License-Identifier: Apache-2.0

package ldi_test

import (
	"time"

	"github.com/penny-vault/ldi-engine/allocator"
	"github.com/penny-vault/ldi-engine/assumptions"
)

// flatAssumptions builds an Assumptions with constant annual rates for every
// date, covering the four assets the GlidePath allocator ever returns a
// weight for.
func flatAssumptions(inflation, discountRate, equityReturn, treasuryReturn float64) *assumptions.Assumptions {
	a, err := assumptions.New(
		assumptions.Field{Default: inflation},
		assumptions.Field{Default: discountRate},
		map[string]assumptions.Field{
			"us_equity_total_market":   {Default: equityReturn},
			"intl_equity_developed":    {Default: equityReturn},
			"us_nominal_treasury_long": {Default: treasuryReturn},
			"us_tips_long":             {Default: treasuryReturn},
		},
	)
	if err != nil {
		panic(err)
	}
	return a
}

// fakeAllocator lets tests hand runBucket a misbehaving weight set without
// reaching into package ldi's unexported construction path.
type fakeAllocator struct {
	weights allocator.Weights
}

func (f fakeAllocator) Name() string { return "fake" }

func (f fakeAllocator) Allocate(allocator.Input) allocator.Weights {
	return f.weights
}

func monthsFromNow(base time.Time, months int) time.Time {
	return base.AddDate(0, months, 0)
}
