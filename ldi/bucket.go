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

package ldi

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/penny-vault/ldi-engine/allocator"
	"github.com/penny-vault/ldi-engine/assumptions"
	"github.com/penny-vault/ldi-engine/dataframe"
)

const (
	colAssetBalance   = "asset_balance"
	colFundingRatio   = "funding_ratio"
	colExpectedReturn = "expected_return"
	colSurplus        = "surplus"
	colShortfall      = "shortfall"
	allocColPrefix    = "alloc_"
)

// Contributions normalizes a scalar or time-series contribution schedule
// onto a bucket's own month index.
type Contributions interface {
	valuesFor(index []time.Time) ([]float64, error)
}

// ScalarContributions broadcasts one amount to every month of the bucket.
type ScalarContributions float64

func (s ScalarContributions) valuesFor(index []time.Time) ([]float64, error) {
	out := make([]float64, len(index))
	for i := range out {
		out[i] = float64(s)
	}
	return out, nil
}

// SeriesContributions reindexes a set of dated amounts by month-period,
// stripping day-of-month, so callers can hand in contributions keyed by any
// day within the intended month.
type SeriesContributions struct {
	Dates  []time.Time
	Values []float64
}

func (s SeriesContributions) valuesFor(index []time.Time) ([]float64, error) {
	byMonth := make(map[string]float64, len(s.Dates))
	for i, d := range s.Dates {
		byMonth[monthKey(d)] += s.Values[i]
	}

	out := make([]float64, len(index))
	var missing []string
	for i, d := range index {
		v, ok := byMonth[monthKey(d)]
		if !ok {
			missing = append(missing, monthKey(d))
			continue
		}
		out[i] = v
	}
	if len(missing) > 0 {
		return nil, newScheduleMismatch(fmt.Sprintf("contribution series missing months: %v", missing))
	}
	return out, nil
}

func monthKey(d time.Time) string {
	return d.Format("2006-01")
}

// Bucket projects a pool of assets forward in monthly steps. RequiredBucket
// and SurplusBucket are built on top of it; Bucket itself is never
// constructed directly from outside the package.
type Bucket struct {
	Name         string
	Frame        *dataframe.DataFrame
	AllowSurplus bool

	assetNames []string
}

func runBucket(name string, initialAmount float64, frame *dataframe.DataFrame, a *assumptions.Assumptions, alloc allocator.Allocator, contrib Contributions, allowSurplus bool) (*Bucket, error) {
	contributions, err := contrib.valuesFor(frame.Dates)
	if err != nil {
		return nil, err
	}

	n := frame.Len()
	horizonCol, err := frame.Column(colHorizon)
	if err != nil {
		return nil, err
	}
	pvCol, err := frame.Column(colPVRemaining)
	if err != nil {
		return nil, err
	}

	assetBalance := make([]float64, n)
	fundingRatio := make([]float64, n)
	expectedReturn := make([]float64, n)
	surplus := make([]float64, n)
	allocCols := map[string][]float64{}

	balance := initialAmount
	for i, d := range frame.Dates {
		l := pvCol[i]

		in := allocator.Input{HorizonMonths: int(horizonCol[i])}
		if l > 0 {
			in.FundingRatio = balance / l
			in.HasFundingRatio = true
			fundingRatio[i] = in.FundingRatio
		} else {
			fundingRatio[i] = math.NaN()
		}

		weights := alloc.Allocate(in)
		for asset, w := range weights {
			if w < -1e-9 {
				return nil, fmt.Errorf("ldi: allocator %q returned negative weight %f for %q", alloc.Name(), w, asset)
			}
			col, ok := allocCols[asset]
			if !ok {
				col = make([]float64, n)
				allocCols[asset] = col
			}
			col[i] = w
		}

		infl := assumptions.Monthly(a.Inflation(d))
		returns := a.AssetReturns(d)
		r := 0.0
		for asset, w := range weights {
			nominal, ok := returns[asset]
			if !ok {
				return nil, &assumptions.ConfigInvalid{Reason: fmt.Sprintf("unknown asset %q", asset)}
			}
			real := (1+assumptions.Monthly(nominal))/(1+infl) - 1
			r += w * real
		}
		expectedReturn[i] = r

		if allowSurplus && balance > l {
			surplus[i] = balance - l
			balance = l
		}
		assetBalance[i] = balance

		balance = balance*(1+r) + contributions[i]
	}

	if err := frame.AppendColumn(colAssetBalance, assetBalance); err != nil {
		return nil, err
	}
	if err := frame.AppendColumn(colFundingRatio, fundingRatio); err != nil {
		return nil, err
	}
	if err := frame.AppendColumn(colExpectedReturn, expectedReturn); err != nil {
		return nil, err
	}
	if err := frame.AppendColumn(colSurplus, surplus); err != nil {
		return nil, err
	}

	assetNames := make([]string, 0, len(allocCols))
	allocColNames := make([]string, 0, len(allocCols))
	for asset, col := range allocCols {
		assetNames = append(assetNames, asset)
		allocColNames = append(allocColNames, allocColPrefix+asset)
		if err := frame.AppendColumn(allocColPrefix+asset, col); err != nil {
			return nil, err
		}
	}
	sort.Strings(assetNames)

	for i, d := range frame.Dates {
		sum, err := frame.SumRow(i, allocColNames...)
		if err != nil {
			return nil, err
		}
		if math.Abs(sum-1) > 1e-9 {
			return nil, fmt.Errorf("ldi: allocator %q weights summed to %f, want 1 (month %s)", alloc.Name(), sum, d.Format("2006-01"))
		}
	}

	return &Bucket{
		Name:         name,
		Frame:        frame,
		AllowSurplus: allowSurplus,
		assetNames:   assetNames,
	}, nil
}

func (b *Bucket) row(period int) int {
	if period < 0 {
		return b.Frame.Len() + period
	}
	return period
}

func (b *Bucket) column(name string) []float64 {
	col, err := b.Frame.Column(name)
	if err != nil {
		panic(err)
	}
	return col
}

// AssetBalance returns the projected balance for the given period; negative
// periods count back from the end, so -1 is the terminal row.
func (b *Bucket) AssetBalance(period int) float64 {
	return b.column(colAssetBalance)[b.row(period)]
}

// Surplus returns the amount peeled off as surplus at the given period.
func (b *Bucket) Surplus(period int) float64 {
	return b.column(colSurplus)[b.row(period)]
}

// Allocations returns the allocator's weights for the given period.
func (b *Bucket) Allocations(period int) allocator.Weights {
	row := b.row(period)
	w := make(allocator.Weights, len(b.assetNames))
	for _, asset := range b.assetNames {
		w[asset] = b.column(allocColPrefix + asset)[row]
	}
	return w
}

// RequiredBucket tracks a single Liability and reports its shortfall.
type RequiredBucket struct {
	*Bucket
	Liability *Liability
}

func newRequiredBucket(name string, initialAmount float64, liability *Liability, a *assumptions.Assumptions, alloc allocator.Allocator, contrib Contributions) (*RequiredBucket, error) {
	frame := liability.Frame()

	bucket, err := runBucket(name, initialAmount, frame, a, alloc, contrib, true)
	if err != nil {
		return nil, err
	}

	n := frame.Len()
	pvCol := bucket.column(colPVRemaining)
	balCol := bucket.column(colAssetBalance)
	shortfall := make([]float64, n)
	for i := range shortfall {
		shortfall[i] = math.Max(0, pvCol[i]-balCol[i])
	}
	if err := frame.AppendColumn(colShortfall, shortfall); err != nil {
		return nil, err
	}

	return &RequiredBucket{Bucket: bucket, Liability: liability}, nil
}

// Shortfall returns max(0, pv_remaining - asset_balance) at the given period.
func (r *RequiredBucket) Shortfall(period int) float64 {
	return r.column(colShortfall)[r.row(period)]
}

// SurplusBucket holds assets in excess of all liability present values. It
// has no liability of its own, never peels surplus from itself, and carries
// an infinite horizon and a zero pv_remaining for every month, which —
// combined — make the allocator return its maximum-equity mix throughout.
type SurplusBucket struct {
	*Bucket
}

func newSurplusBucket(name string, initialAmount float64, index []time.Time, a *assumptions.Assumptions, alloc allocator.Allocator, contrib Contributions) (*SurplusBucket, error) {
	n := len(index)
	horizon := make([]float64, n)
	pvRemaining := make([]float64, n)
	for i := range horizon {
		horizon[i] = float64(allocator.InfiniteHorizon)
		pvRemaining[i] = 0
	}

	frame := &dataframe.DataFrame{
		Dates:    append([]time.Time(nil), index...),
		ColNames: []string{colHorizon, colPVRemaining},
		Vals:     [][]float64{horizon, pvRemaining},
	}

	bucket, err := runBucket(name, initialAmount, frame, a, alloc, contrib, false)
	if err != nil {
		return nil, err
	}

	return &SurplusBucket{Bucket: bucket}, nil
}
