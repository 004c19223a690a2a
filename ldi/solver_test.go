// Copyright 2021-2022
// SPDX-License-Identifier: Apache-2.0

package ldi_test

import (
	"math"
	"time"

	"github.com/penny-vault/ldi-engine/allocator"
	"github.com/penny-vault/ldi-engine/ldi"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Solver", func() {
	valuation := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	underfundedCfg := func(maturity time.Time) ldi.ModelConfig {
		return ldi.ModelConfig{
			Name:        "underfunded",
			AssetsToday: 50000,
			Liabilities: []ldi.LiabilityConfig{
				{Type: "one_time", StartDate: maturity, AmountToday: 300000},
			},
			ValuationDate: valuation,
		}
	}

	It("recovers an underfunded scenario with a one-time lump sum", func() {
		a := flatAssumptions(0.02, 0.025, 0.06, 0.03)
		gp := allocator.NewGlidePath()
		maturity := monthsFromNow(valuation, 60)
		cfg := underfundedCfg(maturity)

		baseline, err := ldi.NewModel(cfg, a, gp)
		Expect(err).ToNot(HaveOccurred())
		Expect(baseline.FundedStatus).To(BeNumerically("<", 0))

		delta, err := ldi.SolveNetContributionToday(cfg, a, gp, baseline.FundedStatus)
		Expect(err).ToNot(HaveOccurred())
		Expect(delta).To(BeNumerically(">", 0))

		solved := cfg
		solved.AssetsToday = cfg.AssetsToday + delta
		solved.Contributions = nil
		m, err := ldi.NewModel(solved, a, gp)
		Expect(err).ToNot(HaveOccurred())
		Expect(math.Abs(m.FundedStatus)).To(BeNumerically("<=", ldi.SolverTolerance*2))
	})

	It("recovers an underfunded scenario with a recurring monthly contribution", func() {
		a := flatAssumptions(0.02, 0.025, 0.06, 0.03)
		gp := allocator.NewGlidePath()
		maturity := monthsFromNow(valuation, 60)
		cfg := underfundedCfg(maturity)

		baseline, err := ldi.NewModel(cfg, a, gp)
		Expect(err).ToNot(HaveOccurred())

		amount, err := ldi.SolveMonthlyContribution(cfg, a, gp, baseline.FundedStatus)
		Expect(err).ToNot(HaveOccurred())
		Expect(amount).To(BeNumerically(">", 0))
	})

	It("is idempotent: re-solving the solved scenario needs no further adjustment", func() {
		a := flatAssumptions(0.02, 0.025, 0.06, 0.03)
		gp := allocator.NewGlidePath()
		maturity := monthsFromNow(valuation, 60)
		cfg := underfundedCfg(maturity)

		baseline, err := ldi.NewModel(cfg, a, gp)
		Expect(err).ToNot(HaveOccurred())

		delta, err := ldi.SolveNetContributionToday(cfg, a, gp, baseline.FundedStatus)
		Expect(err).ToNot(HaveOccurred())

		solved := cfg
		solved.AssetsToday = cfg.AssetsToday + delta
		solvedModel, err := ldi.NewModel(solved, a, gp)
		Expect(err).ToNot(HaveOccurred())

		delta2, err := ldi.SolveNetContributionToday(solved, a, gp, solvedModel.FundedStatus)
		Expect(err).ToNot(HaveOccurred())
		Expect(math.Abs(delta2)).To(BeNumerically("<=", ldi.SolverTolerance*2))
	})

	It("rejects the monthly contribution solver when no liability is present", func() {
		a := flatAssumptions(0.02, 0.025, 0.06, 0.03)
		gp := allocator.NewGlidePath()
		end := monthsFromNow(valuation, 24)
		cfg := ldi.ModelConfig{Name: "no-liability", AssetsToday: 1000, ValuationDate: valuation, EndDate: &end}

		_, err := ldi.SolveMonthlyContribution(cfg, a, gp, -1000)
		Expect(err).To(HaveOccurred())
	})

	It("runs the full scenario pipeline end to end via RunScenario", func() {
		a := flatAssumptions(0.02, 0.025, 0.06, 0.03)
		gp := allocator.NewGlidePath()
		maturity := monthsFromNow(valuation, 60)
		cfg := underfundedCfg(maturity)

		result, err := ldi.RunScenario(cfg, a, gp)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Name).To(Equal("underfunded"))
		Expect(result.NetContributionToday).To(BeNumerically(">", 0))
	})
})
