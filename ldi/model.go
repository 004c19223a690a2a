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
	"time"

	"github.com/google/uuid"
	"github.com/penny-vault/ldi-engine/allocator"
	"github.com/penny-vault/ldi-engine/assumptions"
	"github.com/penny-vault/ldi-engine/dataframe"
)

// LiabilityConfig is the expanded form of one scenario liability entry.
type LiabilityConfig struct {
	Type          string // "recurring" | "one_time"
	StartDate     time.Time
	AmountToday   float64
	DurationYears int
}

// ContributionConfig is the expanded form of one scenario contribution entry.
type ContributionConfig struct {
	Type      string // "recurring" | "one_time"
	Amount    float64
	Frequency string // "monthly" | "annual", recurring only
	Month     int    // 1-12, annual only; 0 means default (January)
	StartDate *time.Time
	EndDate   *time.Time
	Date      *time.Time // one_time only
}

// ModelConfig is the fully-resolved input to a Model run. ValuationDate is
// supplied by the caller rather than taken from the wall clock, so a Solver
// can re-run the same Model many times against one frozen valuation date —
// the engine itself performs no I/O and reads no ambient time.
type ModelConfig struct {
	Name          string
	AssetsToday   float64
	Liabilities   []LiabilityConfig
	Contributions []ContributionConfig
	EndDate       *time.Time
	ValuationDate time.Time
}

// Model orchestrates a full LDI projection: it expands liability configs,
// builds the contribution series, allocates initial capital across required
// buckets, runs each bucket, rebalances surplus, and computes funded status
// and the blended current allocation. Construction runs the whole pipeline
// eagerly; afterwards a Model is query-only.
type Model struct {
	Name          string
	CurrentBalance float64
	ValuationDate time.Time
	EndDate       time.Time
	RunID         uuid.UUID

	assumptions *assumptions.Assumptions
	allocator   allocator.Allocator

	Liabilities     []*Liability
	RequiredBuckets []*RequiredBucket
	SurplusBucket   *SurplusBucket

	PresentValue           float64
	CurrentFundingRatio    float64
	HasCurrentFundingRatio bool

	FundedStatus       float64
	CurrentAllocations allocator.Weights

	contributionDates  []time.Time
	contributionValues []float64
}

// NewModel validates cfg and runs the full projection pipeline.
func NewModel(cfg ModelConfig, a *assumptions.Assumptions, alloc allocator.Allocator) (*Model, error) {
	if len(cfg.Liabilities) == 0 && cfg.EndDate == nil {
		return nil, newConfigInvalid("scenario must provide liabilities or end_date", nil)
	}

	m := &Model{
		Name:           cfg.Name,
		CurrentBalance: cfg.AssetsToday,
		ValuationDate:  cfg.ValuationDate,
		RunID:          uuid.New(),
		assumptions:    a,
		allocator:      alloc,
	}

	if err := m.generateLiabilities(cfg.Liabilities); err != nil {
		return nil, err
	}
	m.resolveEndDate(cfg.EndDate)
	if err := m.generateContributions(cfg.Contributions); err != nil {
		return nil, err
	}
	if err := m.generateRequiredBuckets(); err != nil {
		return nil, err
	}
	if err := m.rebalanceSurplus(); err != nil {
		return nil, err
	}
	m.calculateFundedStatus()
	if err := m.calculateCurrentAllocations(); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Model) generateLiabilities(configs []LiabilityConfig) error {
	for _, cfg := range configs {
		duration := cfg.DurationYears

		switch cfg.Type {
		case "recurring":
			if duration <= 0 {
				return newConfigInvalid("recurring liability requires a positive duration_years", nil)
			}
		case "one_time":
			duration = 1
		default:
			return newConfigInvalid(fmt.Sprintf("unknown liability type %q", cfg.Type), nil)
		}

		for i := 0; i < duration; i++ {
			maturity := cfg.StartDate.AddDate(i, 0, 0)
			m.Liabilities = append(m.Liabilities, NewLiability(cfg.AmountToday, m.ValuationDate, maturity, m.assumptions))
		}
	}

	for _, l := range m.Liabilities {
		m.PresentValue += l.PresentValue()
	}
	if m.PresentValue != 0 {
		m.CurrentFundingRatio = m.CurrentBalance / m.PresentValue
		m.HasCurrentFundingRatio = true
	}
	return nil
}

func (m *Model) resolveEndDate(endDate *time.Time) {
	if endDate != nil {
		m.EndDate = *endDate
		return
	}
	var latest time.Time
	for _, l := range m.Liabilities {
		if l.MaturityDate.After(latest) {
			latest = l.MaturityDate
		}
	}
	m.EndDate = latest
}

func (m *Model) generateContributions(configs []ContributionConfig) error {
	index := monthlyIndex(m.ValuationDate.AddDate(0, 1, 0), m.EndDate)
	ts := make([]float64, len(index))
	monthIdx := make(map[string]int, len(index))
	for i, d := range index {
		monthIdx[monthKey(d)] = i
	}

	for _, c := range configs {
		switch c.Type {
		case "recurring":
			freq := c.Frequency
			if freq == "" {
				freq = "monthly"
			}

			start := index[0]
			if c.StartDate != nil {
				start = *c.StartDate
			}
			end := m.EndDate
			if c.EndDate != nil {
				end = *c.EndDate
			}
			start, end = monthStart(start), monthStart(end)

			switch freq {
			case "monthly":
				for i, d := range index {
					if !d.Before(start) && !d.After(end) {
						ts[i] += c.Amount
					}
				}
			case "annual":
				month := c.Month
				if month == 0 {
					month = 1
				}
				for i, d := range index {
					if int(d.Month()) == month && !d.Before(start) && !d.After(end) {
						ts[i] += c.Amount
					}
				}
			default:
				return newConfigInvalid(fmt.Sprintf("unsupported contribution frequency %q", freq), nil)
			}

		case "one_time":
			if c.Date == nil {
				return newConfigInvalid("one_time contribution requires a date", nil)
			}
			idx, ok := monthIdx[monthKey(*c.Date)]
			if !ok {
				return newScheduleMismatch(fmt.Sprintf("one-time contribution date %s not in timeline", c.Date.Format("2006-01-02")))
			}
			ts[idx] += c.Amount

		default:
			return newConfigInvalid(fmt.Sprintf("unknown contribution type %q", c.Type), nil)
		}
	}

	m.contributionDates = index
	m.contributionValues = ts
	return nil
}

func (m *Model) generateRequiredBuckets() error {
	requiredCapital := math.Min(m.CurrentBalance, m.PresentValue)
	n := len(m.Liabilities)

	for idx, liability := range m.Liabilities {
		share := 0.0
		if m.PresentValue != 0 {
			share = requiredCapital * liability.PresentValue() / m.PresentValue
		}

		perBucket := make([]float64, len(m.contributionValues))
		for i, v := range m.contributionValues {
			perBucket[i] = v / float64(n)
		}

		name := fmt.Sprintf("required[%d]-%s", idx, liability.MaturityDate.Format("2006-01-02"))
		bucket, err := newRequiredBucket(name, share, liability, m.assumptions, m.allocator, SeriesContributions{Dates: m.contributionDates, Values: perBucket})
		if err != nil {
			return err
		}
		m.RequiredBuckets = append(m.RequiredBuckets, bucket)
	}
	return nil
}

func (m *Model) rebalanceSurplus() error {
	surplusCapital := math.Max(0, m.CurrentBalance-m.PresentValue)

	peelOff := make([]float64, len(m.contributionDates))
	if len(m.RequiredBuckets) > 0 {
		frames := make([]*dataframe.DataFrame, len(m.RequiredBuckets))
		for i, b := range m.RequiredBuckets {
			frames[i] = b.Frame
		}
		sum, err := dataframe.SumAcross(frames, colSurplus)
		if err != nil {
			return err
		}
		peelOff = sum
	}

	bucket, err := newSurplusBucket("surplus", surplusCapital, m.contributionDates, m.assumptions, m.allocator, SeriesContributions{Dates: m.contributionDates, Values: peelOff})
	if err != nil {
		return err
	}
	m.SurplusBucket = bucket
	return nil
}

func (m *Model) calculateFundedStatus() {
	surplus := 0.0
	if m.SurplusBucket.Frame.Len() > 0 {
		surplus = m.SurplusBucket.AssetBalance(-1)
	}

	shortfall := 0.0
	for _, b := range m.RequiredBuckets {
		if b.Frame.Len() > 0 {
			shortfall += b.Shortfall(-1)
		}
	}

	if surplus > 0 {
		m.FundedStatus = surplus
	} else {
		m.FundedStatus = -shortfall
	}
}

func (m *Model) calculateCurrentAllocations() error {
	numerators := map[string]float64{}
	denominator := 0.0

	addWeighted := func(weight float64, alloc allocator.Weights) {
		for asset, w := range alloc {
			numerators[asset] += w * weight
		}
		denominator += weight
	}

	if m.CurrentBalance == 0 {
		for _, b := range m.RequiredBuckets {
			if b.Frame.Len() == 0 {
				continue
			}
			addWeighted(b.Liability.PresentValue(), b.Allocations(0))
		}
	} else {
		for _, b := range m.RequiredBuckets {
			if b.Frame.Len() == 0 {
				continue
			}
			addWeighted(b.AssetBalance(0), b.Allocations(0))
		}
		if m.SurplusBucket.Frame.Len() > 0 {
			addWeighted(m.SurplusBucket.AssetBalance(0), m.SurplusBucket.Allocations(0))
		}
	}

	if denominator == 0 {
		m.CurrentAllocations = allocator.Weights{}
		return nil
	}

	out := make(allocator.Weights, len(numerators))
	for asset, v := range numerators {
		out[asset] = v / denominator
	}
	m.CurrentAllocations = out
	return nil
}

// Result is the per-scenario output payload the CLI / report layer renders.
type Result struct {
	Name                 string
	AssetsToday          float64
	SurplusAtMaturity    float64
	Allocations          allocator.Weights
	NetContributionToday float64
	MonthlyContribution  float64
}

// Result packages the model's funded status and allocation into the
// external result payload. Solver fills in NetContributionToday and
// MonthlyContribution after running its two bisection loops.
func (m *Model) Result() Result {
	return Result{
		Name:              m.Name,
		AssetsToday:       m.CurrentBalance,
		SurplusAtMaturity: m.FundedStatus,
		Allocations:       m.CurrentAllocations,
	}
}
