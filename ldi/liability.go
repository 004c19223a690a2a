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

// Package ldi is the deterministic liability-driven-investment projection
// engine: Liability valuation, the Bucket projection loop, Model
// orchestration, and the bisection Solvers wrapping it.
package ldi

import (
	"time"

	"github.com/penny-vault/ldi-engine/assumptions"
	"github.com/penny-vault/ldi-engine/dataframe"
)

const (
	colHorizon     = "horizon"
	colPVRemaining = "pv_remaining"
)

// Liability is a single future cashflow. It builds a monthly
// (horizon, pv_remaining) table at construction and never mutates it again;
// RequiredBucket copies this table rather than sharing it, so growing the
// bucket's projection columns never touches the Liability's own frame.
type Liability struct {
	Amount        float64
	ValuationDate time.Time
	MaturityDate  time.Time

	frame *dataframe.DataFrame
}

// NewLiability builds the monthly real-discounted present-value schedule for
// a single cashflow of amount due at maturityDate, valued as of
// valuationDate under the given Assumptions.
func NewLiability(amount float64, valuationDate, maturityDate time.Time, a *assumptions.Assumptions) *Liability {
	index := monthlyIndex(monthStart(valuationDate).AddDate(0, 1, 0), monthStart(maturityDate))

	horizon := make([]float64, len(index))
	pvRemaining := make([]float64, len(index))

	// Cumulative product of (1+r_real) from the row after d through maturity,
	// with the maturity row's factor fixed at 1, so pv_remaining(maturity)
	// equals amount exactly and pv_remaining is built by scanning backward.
	factor := 1.0
	for i := len(index) - 1; i >= 0; i-- {
		d := index[i]
		horizon[i] = float64(monthsBetween(d, maturityDate))
		pvRemaining[i] = amount * factor

		infl := assumptions.Monthly(a.Inflation(d))
		disc := assumptions.Monthly(a.DiscountRate(d))
		rReal := (1 + infl) / (1 + disc) - 1
		factor *= 1 + rReal
	}

	frame := &dataframe.DataFrame{
		Dates:    index,
		ColNames: []string{colHorizon, colPVRemaining},
		Vals:     [][]float64{horizon, pvRemaining},
	}

	return &Liability{
		Amount:        amount,
		ValuationDate: valuationDate,
		MaturityDate:  maturityDate,
		frame:         frame,
	}
}

// Frame returns a copy of the liability's (horizon, pv_remaining) table, so
// a RequiredBucket can grow it with projection columns without mutating the
// Liability itself (spec's shared-frame design note).
func (l *Liability) Frame() *dataframe.DataFrame {
	return l.frame.Copy()
}

// PresentValue returns pv_remaining at the first (valuation) row.
func (l *Liability) PresentValue() float64 {
	if l.frame.Len() == 0 {
		return 0
	}
	col := l.mustColumn(colPVRemaining)
	return col[0]
}

// Horizon returns the horizon of the first projected row (the month after
// valuation): the whole calendar months from that month to maturity.
func (l *Liability) Horizon() int {
	if l.frame.Len() == 0 {
		return 0
	}
	col := l.mustColumn(colHorizon)
	return int(col[0])
}

func (l *Liability) mustColumn(name string) []float64 {
	col, err := l.frame.Column(name)
	if err != nil {
		panic(err)
	}
	return col
}

// monthStart returns the first day of d's month, at midnight UTC, stripping
// time-of-day so month arithmetic never depends on it.
func monthStart(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// monthsBetween returns the whole number of calendar months from d to end.
func monthsBetween(d, end time.Time) int {
	return 12*(end.Year()-d.Year()) + int(end.Month()) - int(d.Month())
}

// monthlyIndex builds a contiguous list of month-start dates from start to
// end (inclusive). Returns an empty slice if end precedes start.
func monthlyIndex(start, end time.Time) []time.Time {
	start = monthStart(start)
	end = monthStart(end)
	if end.Before(start) {
		return nil
	}
	n := monthsBetween(start, end) + 1
	out := make([]time.Time, n)
	cur := start
	for i := 0; i < n; i++ {
		out[i] = cur
		cur = cur.AddDate(0, 1, 0)
	}
	return out
}
