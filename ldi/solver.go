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

	"github.com/penny-vault/ldi-engine/allocator"
	"github.com/penny-vault/ldi-engine/assumptions"
)

const (
	// SolverMaxIter bounds every bisection loop; neither solver is
	// guaranteed to bracket a root, so this is what keeps a pathological
	// scenario from iterating forever rather than a convergence guarantee.
	SolverMaxIter = 40
	// SolverTolerance is the dollar tolerance on terminal funded status a
	// solver treats as converged.
	SolverTolerance = 100.0
)

// RunScenario runs the baseline Model once, then the two bisection solvers
// against it, and returns the full external result payload. The run command
// calls it once per scenario.
func RunScenario(cfg ModelConfig, a *assumptions.Assumptions, alloc allocator.Allocator) (Result, error) {
	baseline, err := NewModel(cfg, a, alloc)
	if err != nil {
		return Result{}, err
	}

	result := baseline.Result()

	netContribution, err := SolveNetContributionToday(cfg, a, alloc, result.SurplusAtMaturity)
	if err != nil {
		return Result{}, fmt.Errorf("ldi: lump-sum solver: %w", err)
	}
	result.NetContributionToday = netContribution

	monthlyContribution, err := SolveMonthlyContribution(cfg, a, alloc, result.SurplusAtMaturity)
	if err != nil {
		return Result{}, fmt.Errorf("ldi: monthly contribution solver: %w", err)
	}
	result.MonthlyContribution = monthlyContribution

	return result, nil
}

// SolveNetContributionToday finds the initial assets_today that drives
// terminal funded status to ~0 with no contributions, returning the delta
// from the scenario's own assets_today (the lump sum that must be added
// today to close the gap).
func SolveNetContributionToday(cfg ModelConfig, a *assumptions.Assumptions, alloc allocator.Allocator, baselineSurplus float64) (float64, error) {
	lower := 0.0
	upper := cfg.AssetsToday
	if baselineSurplus < 0 {
		upper = -baselineSurplus
	}

	// The initial bracket is a heuristic; while the model is still
	// underfunded at upper, double it so the root lies inside [lower, upper].
	for i := 0; i < SolverMaxIter && upper > 0; i++ {
		trial := cfg
		trial.AssetsToday = upper
		trial.Contributions = nil
		m, err := NewModel(trial, a, alloc)
		if err != nil {
			return 0, err
		}
		if m.FundedStatus >= -SolverTolerance {
			break
		}
		upper *= 2
	}

	middle := lower
	for i := 0; i < SolverMaxIter; i++ {
		middle = (lower + upper) / 2

		trial := cfg
		trial.AssetsToday = middle
		trial.Contributions = nil

		m, err := NewModel(trial, a, alloc)
		if err != nil {
			return 0, err
		}

		if math.Abs(m.FundedStatus) <= SolverTolerance {
			break
		}
		if m.FundedStatus > SolverTolerance {
			upper = middle
		} else {
			lower = middle
		}
	}

	return middle - cfg.AssetsToday, nil
}

// SolveMonthlyContribution finds the recurring monthly contribution,
// starting today and running through the month before the first liability
// comes due, that drives terminal funded status to ~0.
func SolveMonthlyContribution(cfg ModelConfig, a *assumptions.Assumptions, alloc allocator.Allocator, baselineSurplus float64) (float64, error) {
	if len(cfg.Liabilities) == 0 {
		return 0, newConfigInvalid("monthly contribution solver requires at least one liability", nil)
	}

	first := cfg.Liabilities[0]
	duration := first.DurationYears
	if first.Type == "one_time" || duration <= 0 {
		duration = 1
	}
	maturity := first.StartDate.AddDate(duration, 0, 0)
	firstCashflow := cfg.ValuationDate.AddDate(0, 1, 0)
	horizon := monthsBetween(monthStart(firstCashflow), monthStart(maturity))
	if horizon <= 0 {
		return 0, fmt.Errorf("ldi: monthly contribution solver: non-positive horizon to first liability (%d months)", horizon)
	}

	upper := 10 * math.Max(-baselineSurplus/float64(horizon), 0)
	lower := 10 * math.Min(-baselineSurplus/float64(horizon), 0)

	startDate := cfg.ValuationDate
	contribEnd := monthStart(first.StartDate).AddDate(0, -1, 0)

	middle := lower
	for i := 0; i < SolverMaxIter; i++ {
		middle = (lower + upper) / 2

		trial := cfg
		trial.Contributions = append(append([]ContributionConfig{}, cfg.Contributions...), ContributionConfig{
			Type:      "recurring",
			Amount:    middle,
			Frequency: "monthly",
			StartDate: &startDate,
			EndDate:   &contribEnd,
		})

		m, err := NewModel(trial, a, alloc)
		if err != nil {
			return 0, err
		}

		if math.Abs(m.FundedStatus) <= SolverTolerance {
			break
		}
		if m.FundedStatus > SolverTolerance {
			upper = middle
		} else {
			lower = middle
		}
	}

	return middle, nil
}
