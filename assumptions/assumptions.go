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

// Package assumptions provides the time-keyed lookup of inflation, discount
// rate and per-asset expected nominal return that every Liability and Bucket
// is built against.
package assumptions

import (
	"fmt"
	"math"
	"time"
)

// Interval is an inclusive [Start, End] date range carrying an override
// value for a scheduled field.
type Interval struct {
	Start time.Time
	End   time.Time
	Value float64
}

func (iv Interval) contains(d time.Time) bool {
	return !d.Before(iv.Start) && !d.After(iv.End)
}

// Field is a scalar default plus an ordered list of interval overrides.
type Field struct {
	Default  float64
	Schedule []Interval
}

func (f Field) lookup(d time.Time) float64 {
	for _, iv := range f.Schedule {
		if iv.contains(d) {
			return iv.Value
		}
	}
	return f.Default
}

// Assumptions is the immutable, run-scoped set of market assumptions a
// Liability or Bucket consults at every projected month. Built once from
// config and never mutated, so it is safe to share a single pointer across a
// Model's liabilities and buckets (see DESIGN.md's open-question decision on
// sharing one Assumptions instance).
type Assumptions struct {
	inflation    Field
	discountRate Field
	assets       map[string]Field
}

// ConfigInvalid is returned when required assumption fields are missing or
// an asset name unknown to these Assumptions is queried.
type ConfigInvalid struct {
	Reason string
}

func (e *ConfigInvalid) Error() string {
	return fmt.Sprintf("assumptions: config invalid: %s", e.Reason)
}

// New builds Assumptions from already-parsed fields. Used by scenario.LoadAssumptions
// and directly by tests that want to bypass the file format.
func New(inflation, discountRate Field, assets map[string]Field) (*Assumptions, error) {
	if assets == nil {
		assets = map[string]Field{}
	}
	return &Assumptions{
		inflation:    inflation,
		discountRate: discountRate,
		assets:       assets,
	}, nil
}

// Inflation returns the annual nominal inflation (CPI) rate in effect on d.
func (a *Assumptions) Inflation(d time.Time) float64 {
	return a.inflation.lookup(d)
}

// DiscountRate returns the annual nominal discount rate in effect on d.
func (a *Assumptions) DiscountRate(d time.Time) float64 {
	return a.discountRate.lookup(d)
}

// AssetReturns returns the annual nominal expected return for every known
// asset class as of d.
func (a *Assumptions) AssetReturns(d time.Time) map[string]float64 {
	out := make(map[string]float64, len(a.assets))
	for name, field := range a.assets {
		out[name] = field.lookup(d)
	}
	return out
}

// AssetReturn returns the annual nominal expected return for a single named
// asset class, failing with ConfigInvalid if the name is not part of this
// Assumptions' asset set.
func (a *Assumptions) AssetReturn(name string, d time.Time) (float64, error) {
	field, ok := a.assets[name]
	if !ok {
		return 0, &ConfigInvalid{Reason: fmt.Sprintf("unknown asset %q", name)}
	}
	return field.lookup(d), nil
}

// Monthly converts an annual nominal rate to its equivalent monthly rate.
func Monthly(annual float64) float64 {
	return math.Pow(1+annual, 1.0/12.0) - 1
}
