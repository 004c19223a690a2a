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

package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/penny-vault/ldi-engine/assumptions"
	log "github.com/sirupsen/logrus"
)

type assumptionsFile struct {
	InflationCPI json.RawMessage            `json:"inflation_cpi"`
	DiscountRate json.RawMessage            `json:"discount_rate"`
	Assets       map[string]json.RawMessage `json:"assets"`
}

type intervalJSON struct {
	Start string  `json:"start"`
	End   string  `json:"end"`
	Value float64 `json:"value"`
}

type fieldJSON struct {
	Default  float64        `json:"default"`
	Schedule []intervalJSON `json:"schedule"`
}

// LoadAssumptions reads an assumptions file (inflation_cpi, discount_rate,
// assets: {name -> spec}) where a spec is either a bare number or a
// {default, schedule} object, and builds an assumptions.Assumptions.
func LoadAssumptions(path string) (*assumptions.Assumptions, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.WithField("path", path).Error("could not read assumptions file")
		return nil, fmt.Errorf("scenario: read assumptions file %s: %w", path, err)
	}

	var file assumptionsFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("scenario: parse assumptions file %s: %w", path, err)
	}

	inflation, err := parseField(file.InflationCPI)
	if err != nil {
		return nil, fmt.Errorf("scenario: inflation_cpi: %w", err)
	}
	discountRate, err := parseField(file.DiscountRate)
	if err != nil {
		return nil, fmt.Errorf("scenario: discount_rate: %w", err)
	}

	assets := make(map[string]assumptions.Field, len(file.Assets))
	for name, raw := range file.Assets {
		field, err := parseField(raw)
		if err != nil {
			return nil, fmt.Errorf("scenario: asset %q: %w", name, err)
		}
		assets[name] = field
	}

	return assumptions.New(inflation, discountRate, assets)
}

// parseField accepts either a bare JSON number (a constant default with no
// schedule) or a {default, schedule: [{start, end, value}]} object.
func parseField(raw json.RawMessage) (assumptions.Field, error) {
	if len(raw) == 0 {
		return assumptions.Field{}, &assumptions.ConfigInvalid{Reason: "missing required field"}
	}

	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return assumptions.Field{Default: asNumber}, nil
	}

	var asObject fieldJSON
	if err := json.Unmarshal(raw, &asObject); err != nil {
		return assumptions.Field{}, fmt.Errorf("invalid assumption field: %w", err)
	}

	schedule := make([]assumptions.Interval, len(asObject.Schedule))
	for i, row := range asObject.Schedule {
		start, err := time.Parse("2006-01-02", row.Start)
		if err != nil {
			return assumptions.Field{}, fmt.Errorf("invalid schedule start date %q: %w", row.Start, err)
		}
		end, err := time.Parse("2006-01-02", row.End)
		if err != nil {
			return assumptions.Field{}, fmt.Errorf("invalid schedule end date %q: %w", row.End, err)
		}
		schedule[i] = assumptions.Interval{Start: start, End: end, Value: row.Value}
	}

	return assumptions.Field{Default: asObject.Default, Schedule: schedule}, nil
}
