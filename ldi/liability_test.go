// Copyright 2021-2022
// SPDX-License-Identifier: Apache-2.0

package ldi_test

import (
	"time"

	"github.com/penny-vault/ldi-engine/ldi"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Liability", func() {
	valuation := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	maturity := time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC)

	It("holds pv_remaining flat at amount when the real discount rate is zero", func() {
		a := flatAssumptions(0.02, 0.02, 0.06, 0.02)
		l := ldi.NewLiability(100000, valuation, maturity, a)

		Expect(l.PresentValue()).To(BeNumerically("~", 100000, 1e-6))
		Expect(l.Horizon()).To(Equal(23))
	})

	It("discounts more heavily the further a row sits from maturity", func() {
		a := flatAssumptions(0.02, 0.05, 0.06, 0.02)
		l := ldi.NewLiability(100000, valuation, maturity, a)

		frame := l.Frame()
		pv, err := frame.Column("pv_remaining")
		Expect(err).ToNot(HaveOccurred())

		Expect(pv[len(pv)-1]).To(BeNumerically("~", 100000, 1e-6))
		for i := 1; i < len(pv); i++ {
			Expect(pv[i]).To(BeNumerically(">=", pv[i-1]))
		}
		Expect(pv[0]).To(BeNumerically("<", 100000))
	})

	It("builds an empty schedule when maturity precedes the first projected month", func() {
		a := flatAssumptions(0.02, 0.02, 0.06, 0.02)
		l := ldi.NewLiability(1000, valuation, valuation, a)
		Expect(l.PresentValue()).To(Equal(0.0))
		Expect(l.Horizon()).To(Equal(0))
	})
})
