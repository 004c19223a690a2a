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
	"github.com/rs/zerolog"
)

func (l *Liability) MarshalZerologObject(e *zerolog.Event) {
	e.Time("ValuationDate", l.ValuationDate).
		Time("MaturityDate", l.MaturityDate).
		Float64("Amount", l.Amount).
		Float64("PresentValue", l.PresentValue()).
		Int("Horizon", l.Horizon())
}

func (b *Bucket) MarshalZerologObject(e *zerolog.Event) {
	e.Str("Name", b.Name).
		Bool("AllowSurplus", b.AllowSurplus).
		Int("Months", b.Frame.Len()).
		Float64("TerminalBalance", b.AssetBalance(-1))
}

func (m *Model) MarshalZerologObject(e *zerolog.Event) {
	e.Str("RunID", m.RunID.String()).
		Str("Name", m.Name).
		Time("ValuationDate", m.ValuationDate).
		Time("EndDate", m.EndDate).
		Float64("CurrentBalance", m.CurrentBalance).
		Float64("PresentValue", m.PresentValue).
		Float64("FundedStatus", m.FundedStatus).
		Int("RequiredBuckets", len(m.RequiredBuckets))
}

func (r Result) MarshalZerologObject(e *zerolog.Event) {
	e.Str("Name", r.Name).
		Float64("AssetsToday", r.AssetsToday).
		Float64("SurplusAtMaturity", r.SurplusAtMaturity).
		Float64("NetContributionToday", r.NetContributionToday).
		Float64("MonthlyContribution", r.MonthlyContribution)
}
