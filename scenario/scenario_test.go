// Copyright 2021-2022
// SPDX-License-Identifier: Apache-2.0

package scenario_test

import (
	"os"
	"path/filepath"
	"time"

	"github.com/penny-vault/ldi-engine/scenario"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func writeFile(dir, name, contents string) string {
	path := filepath.Join(dir, name)
	Expect(os.WriteFile(path, []byte(contents), 0o644)).To(Succeed())
	return path
}

var _ = Describe("Load", func() {
	valuation := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	It("substitutes a whole-string placeholder with the constant's native type", func() {
		dir := GinkgoT().TempDir()
		writeFile(dir, "constants.json", `{"balance": 125000}`)
		scenarioPath := writeFile(dir, "plan.json", `{
			"name": "Retirement",
			"assets_today": "${balance}",
			"end_date": "2030-01-01"
		}`)

		s, err := scenario.Load(scenarioPath, filepath.Join(dir, "constants.json"), valuation)
		Expect(err).ToNot(HaveOccurred())
		Expect(s.Config.AssetsToday).To(Equal(125000.0))
	})

	It("substitutes a placeholder embedded inside a larger string", func() {
		dir := GinkgoT().TempDir()
		writeFile(dir, "constants.json", `{"plan_name": "Alpha"}`)
		scenarioPath := writeFile(dir, "plan.json", `{
			"name": "Plan ${plan_name}",
			"assets_today": 1000,
			"end_date": "2030-01-01"
		}`)

		s, err := scenario.Load(scenarioPath, filepath.Join(dir, "constants.json"), valuation)
		Expect(err).ToNot(HaveOccurred())
		Expect(s.Config.Name).To(Equal("Plan Alpha"))
	})

	It("passes an unresolved placeholder through unchanged", func() {
		dir := GinkgoT().TempDir()
		writeFile(dir, "constants.json", `{}`)
		scenarioPath := writeFile(dir, "plan.json", `{
			"name": "${unknown}",
			"assets_today": 1000,
			"end_date": "2030-01-01"
		}`)

		s, err := scenario.Load(scenarioPath, filepath.Join(dir, "constants.json"), valuation)
		Expect(err).ToNot(HaveOccurred())
		Expect(s.Config.Name).To(Equal("${unknown}"))
	})

	It("loads liabilities and contributions into the model config", func() {
		dir := GinkgoT().TempDir()
		scenarioPath := writeFile(dir, "plan.json", `{
			"name": "College",
			"assets_today": 50000,
			"liabilities": [
				{"type": "one_time", "start_date": "2030-01-01", "amount_today": 200000}
			],
			"contributions": [
				{"type": "recurring", "amount": 500, "frequency": "monthly"}
			]
		}`)

		s, err := scenario.Load(scenarioPath, filepath.Join(dir, "constants.json"), valuation)
		Expect(err).ToNot(HaveOccurred())
		Expect(s.Config.Liabilities).To(HaveLen(1))
		Expect(s.Config.Contributions).To(HaveLen(1))
		Expect(s.Config.EndDate).To(BeNil())
	})

	It("produces identical fingerprints for identical resolved scenarios and different ones otherwise", func() {
		dir := GinkgoT().TempDir()
		writeFile(dir, "constants.json", `{}`)
		path1 := writeFile(dir, "a.json", `{"name": "A", "assets_today": 1000, "end_date": "2030-01-01"}`)
		path2 := writeFile(dir, "b.json", `{"name": "A", "assets_today": 1000, "end_date": "2030-01-01"}`)
		path3 := writeFile(dir, "c.json", `{"name": "A", "assets_today": 2000, "end_date": "2030-01-01"}`)

		s1, err := scenario.Load(path1, filepath.Join(dir, "constants.json"), valuation)
		Expect(err).ToNot(HaveOccurred())
		s2, err := scenario.Load(path2, filepath.Join(dir, "constants.json"), valuation)
		Expect(err).ToNot(HaveOccurred())
		s3, err := scenario.Load(path3, filepath.Join(dir, "constants.json"), valuation)
		Expect(err).ToNot(HaveOccurred())

		Expect(s1.Fingerprint).To(Equal(s2.Fingerprint))
		Expect(s1.Fingerprint).ToNot(Equal(s3.Fingerprint))
	})

	It("loads every scenario in a directory via LoadAll, skipping the constants file", func() {
		dir := GinkgoT().TempDir()
		writeFile(dir, "constants.json", `{}`)
		writeFile(dir, "a.json", `{"name": "A", "assets_today": 1000, "end_date": "2030-01-01"}`)
		writeFile(dir, "b.json", `{"name": "B", "assets_today": 2000, "end_date": "2030-01-01"}`)

		scenarios, err := scenario.LoadAll(dir, filepath.Join(dir, "constants.json"), valuation)
		Expect(err).ToNot(HaveOccurred())
		Expect(scenarios).To(HaveLen(2))
	})
})

var _ = Describe("LoadAssumptions", func() {
	It("parses bare-number and schedule-object fields", func() {
		dir := GinkgoT().TempDir()
		path := writeFile(dir, "assumptions.json", `{
			"inflation_cpi": 0.02,
			"discount_rate": {
				"default": 0.04,
				"schedule": [{"start": "2026-01-01", "end": "2026-06-01", "value": 0.05}]
			},
			"assets": {
				"us_equity_total_market": 0.07,
				"us_nominal_treasury_long": {"default": 0.03, "schedule": []}
			}
		}`)

		a, err := scenario.LoadAssumptions(path)
		Expect(err).ToNot(HaveOccurred())
		Expect(a.Inflation(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))).To(Equal(0.02))
		Expect(a.DiscountRate(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))).To(Equal(0.05))
		Expect(a.DiscountRate(time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC))).To(Equal(0.04))
	})
})
