// Copyright 2021-2022
// SPDX-License-Identifier: Apache-2.0

package ldi_test

import (
	"time"

	"github.com/penny-vault/ldi-engine/allocator"
	"github.com/penny-vault/ldi-engine/ldi"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Model", func() {
	valuation := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	It("requires at least one liability or an explicit end date", func() {
		a := flatAssumptions(0.02, 0.02, 0.06, 0.02)
		gp := allocator.NewGlidePath()
		_, err := ldi.NewModel(ldi.ModelConfig{Name: "empty", ValuationDate: valuation}, a, gp)
		Expect(err).To(HaveOccurred())
	})

	It("projects a zero-liability scenario as flat growth through the surplus bucket alone", func() {
		a := flatAssumptions(0.02, 0.02, 0.06, 0.02)
		gp := allocator.NewGlidePath()
		end := monthsFromNow(valuation, 24)

		m, err := ldi.NewModel(ldi.ModelConfig{
			Name:          "flat-growth",
			AssetsToday:   50000,
			ValuationDate: valuation,
			EndDate:       &end,
		}, a, gp)

		Expect(err).ToNot(HaveOccurred())
		Expect(m.RequiredBuckets).To(BeEmpty())
		Expect(m.SurplusBucket.AssetBalance(-1)).To(BeNumerically(">", 50000))
		Expect(m.FundedStatus).To(BeNumerically("~", m.SurplusBucket.AssetBalance(-1), 1e-6))
	})

	It("stays close to fully funded when assets start exactly at the liability's present value", func() {
		a := flatAssumptions(0.0, 0.03, 0.03, 0.03)
		gp := allocator.NewGlidePath()
		maturity := monthsFromNow(valuation, 36)

		l := ldi.NewLiability(200000, valuation, maturity, a)

		m, err := ldi.NewModel(ldi.ModelConfig{
			Name:        "fully-funded",
			AssetsToday: l.PresentValue(),
			Liabilities: []ldi.LiabilityConfig{
				{Type: "one_time", StartDate: maturity, AmountToday: 200000},
			},
			ValuationDate: valuation,
		}, a, gp)

		Expect(err).ToNot(HaveOccurred())
		Expect(m.FundedStatus).To(BeNumerically("~", 0, 0.05*l.PresentValue()))
	})

	It("blends current allocations by asset-balance weight across required and surplus buckets", func() {
		a := flatAssumptions(0.02, 0.02, 0.06, 0.02)
		gp := allocator.NewGlidePath()
		maturity := monthsFromNow(valuation, 12)

		m, err := ldi.NewModel(ldi.ModelConfig{
			Name:        "blended",
			AssetsToday: 500000,
			Liabilities: []ldi.LiabilityConfig{
				{Type: "one_time", StartDate: maturity, AmountToday: 100000},
			},
			ValuationDate: valuation,
		}, a, gp)

		Expect(err).ToNot(HaveOccurred())
		total := 0.0
		for _, w := range m.CurrentAllocations {
			Expect(w).To(BeNumerically(">=", 0))
			total += w
		}
		Expect(total).To(BeNumerically("~", 1.0, 1e-6))
	})

	It("rejects a one-time contribution whose date falls outside the timeline", func() {
		a := flatAssumptions(0.02, 0.02, 0.06, 0.02)
		gp := allocator.NewGlidePath()
		maturity := monthsFromNow(valuation, 12)
		badDate := monthsFromNow(valuation, 48)

		_, err := ldi.NewModel(ldi.ModelConfig{
			Name:        "bad-schedule",
			AssetsToday: 10000,
			Liabilities: []ldi.LiabilityConfig{
				{Type: "one_time", StartDate: maturity, AmountToday: 100000},
			},
			Contributions: []ldi.ContributionConfig{
				{Type: "one_time", Amount: 1000, Date: &badDate},
			},
			ValuationDate: valuation,
		}, a, gp)

		Expect(err).To(HaveOccurred())
		var sm *ldi.ScheduleMismatch
		Expect(err).To(BeAssignableToTypeOf(sm))
	})

	It("is deterministic: two runs of the same config produce identical funded status", func() {
		a := flatAssumptions(0.02, 0.025, 0.06, 0.03)
		gp := allocator.NewGlidePath()
		maturity := monthsFromNow(valuation, 60)

		cfg := ldi.ModelConfig{
			Name:        "deterministic",
			AssetsToday: 150000,
			Liabilities: []ldi.LiabilityConfig{
				{Type: "one_time", StartDate: maturity, AmountToday: 300000},
			},
			ValuationDate: valuation,
		}

		m1, err := ldi.NewModel(cfg, a, gp)
		Expect(err).ToNot(HaveOccurred())
		m2, err := ldi.NewModel(cfg, a, gp)
		Expect(err).ToNot(HaveOccurred())
		Expect(m1.FundedStatus).To(Equal(m2.FundedStatus))
	})
})
