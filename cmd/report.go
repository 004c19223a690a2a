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

package cmd

import (
	"fmt"
	"math"
	"sort"

	"github.com/penny-vault/ldi-engine/ldi"

	"github.com/rocketlaunchr/dataframe-go"
)

// printReport renders the Summary and Allocations tables for a batch of
// scenario results, one row per scenario. Column values are pre-formatted
// into strings (dollars, percentages) before being handed to the dataframe,
// mirroring the original CLI's pandas .map(_format_dollars) step.
func printReport(results []ldi.Result) {
	fmt.Println()
	fmt.Println("Summary")
	fmt.Println("=======")
	fmt.Println(summaryFrame(results).Table())

	fmt.Println()
	fmt.Println("Allocations")
	fmt.Println("===========")
	fmt.Println(allocationFrame(results).Table())
}

func summaryFrame(results []ldi.Result) *dataframe.DataFrame {
	names := make([]interface{}, len(results))
	assetsToday := make([]interface{}, len(results))
	surplus := make([]interface{}, len(results))
	netContribution := make([]interface{}, len(results))
	monthlyContribution := make([]interface{}, len(results))

	for i, r := range results {
		names[i] = r.Name
		assetsToday[i] = formatDollars(r.AssetsToday)
		surplus[i] = formatDollars(r.SurplusAtMaturity)
		netContribution[i] = formatDollars(r.NetContributionToday)
		monthlyContribution[i] = formatDollars(r.MonthlyContribution)
	}

	return dataframe.NewDataFrame(
		dataframe.NewSeriesString("name", nil, names...),
		dataframe.NewSeriesString("assets_today", nil, assetsToday...),
		dataframe.NewSeriesString("surplus_at_maturity", nil, surplus...),
		dataframe.NewSeriesString("net_contribution_today", nil, netContribution...),
		dataframe.NewSeriesString("monthly_contribution", nil, monthlyContribution...),
	)
}

func allocationFrame(results []ldi.Result) *dataframe.DataFrame {
	assetSet := map[string]bool{}
	for _, r := range results {
		for asset := range r.Allocations {
			assetSet[asset] = true
		}
	}
	assets := make([]string, 0, len(assetSet))
	for asset := range assetSet {
		assets = append(assets, asset)
	}
	sort.Strings(assets)

	names := make([]interface{}, len(results))
	for i, r := range results {
		names[i] = r.Name
	}
	series := []dataframe.Series{dataframe.NewSeriesString("name", nil, names...)}

	for _, asset := range assets {
		vals := make([]interface{}, len(results))
		for i, r := range results {
			vals[i] = formatPercent(r.Allocations[asset])
		}
		series = append(series, dataframe.NewSeriesString(asset, nil, vals...))
	}

	return dataframe.NewDataFrame(series...)
}

func formatDollars(x float64) string {
	if x < 0 {
		return fmt.Sprintf("-$%s", commaFloat(-x))
	}
	return fmt.Sprintf("$%s", commaFloat(x))
}

func formatPercent(x float64) string {
	return fmt.Sprintf("%.1f%%", x*100)
}

// commaFloat formats a non-negative float with thousands separators and two
// decimal places, matching Python's "{:,.2f}" used by the original CLI.
func commaFloat(x float64) string {
	x = math.Round(x*100) / 100
	whole := int64(x)
	frac := x - float64(whole)

	wholeStr := fmt.Sprintf("%d", whole)
	grouped := make([]byte, 0, len(wholeStr)+len(wholeStr)/3)
	for i, c := range []byte(wholeStr) {
		if i > 0 && (len(wholeStr)-i)%3 == 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, c)
	}

	return fmt.Sprintf("%s%s", grouped, fmt.Sprintf("%.2f", frac)[1:])
}
