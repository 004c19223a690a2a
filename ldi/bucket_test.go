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

var _ = Describe("Bucket projection", func() {
	valuation := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	maturity := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

	It("keeps a fully funded bucket exactly on the liability schedule with no contributions", func() {
		a := flatAssumptions(0.02, 0.02, 0.02, 0.02)
		gp := allocator.NewGlidePath()

		cfg := ldi.ModelConfig{
			Name:        "fully-funded",
			AssetsToday: 100000,
			Liabilities: []ldi.LiabilityConfig{
				{Type: "one_time", StartDate: maturity, AmountToday: 100000},
			},
			ValuationDate: valuation,
		}

		m, err := ldi.NewModel(cfg, a, gp)
		Expect(err).ToNot(HaveOccurred())
		Expect(m.RequiredBuckets).To(HaveLen(1))

		bucket := m.RequiredBuckets[0]
		Expect(bucket.Shortfall(-1)).To(BeNumerically("~", 0, 1e-6))
		Expect(bucket.AssetBalance(-1)).To(BeNumerically("~", 100000, 1e-3))
	})

	It("rejects an allocator whose weights do not sum to one", func() {
		a := flatAssumptions(0.02, 0.02, 0.02, 0.02)
		bad := fakeAllocator{weights: allocator.Weights{"us_equity_total_market": 0.5}}

		cfg := ldi.ModelConfig{
			Name:        "broken-allocator",
			AssetsToday: 100000,
			Liabilities: []ldi.LiabilityConfig{
				{Type: "one_time", StartDate: maturity, AmountToday: 100000},
			},
			ValuationDate: valuation,
		}

		_, err := ldi.NewModel(cfg, a, bad)
		Expect(err).To(HaveOccurred())
	})

	It("rejects an allocator returning a negative weight", func() {
		a := flatAssumptions(0.02, 0.02, 0.02, 0.02)
		bad := fakeAllocator{weights: allocator.Weights{"us_equity_total_market": 1.5, "us_tips_long": -0.5}}

		cfg := ldi.ModelConfig{
			Name:        "negative-weight",
			AssetsToday: 100000,
			Liabilities: []ldi.LiabilityConfig{
				{Type: "one_time", StartDate: maturity, AmountToday: 100000},
			},
			ValuationDate: valuation,
		}

		_, err := ldi.NewModel(cfg, a, bad)
		Expect(err).To(HaveOccurred())
	})

	It("peels surplus off a required bucket once assets exceed the remaining liability value", func() {
		a := flatAssumptions(0.02, 0.02, 0.08, 0.08)
		gp := allocator.NewGlidePath()

		cfg := ldi.ModelConfig{
			Name:        "overfunded",
			AssetsToday: 100000,
			Liabilities: []ldi.LiabilityConfig{
				{Type: "one_time", StartDate: maturity, AmountToday: 100000},
			},
			ValuationDate: valuation,
		}

		m, err := ldi.NewModel(cfg, a, gp)
		Expect(err).ToNot(HaveOccurred())
		bucket := m.RequiredBuckets[0]
		Expect(bucket.Surplus(-1)).To(BeNumerically(">", 0))
	})
})
