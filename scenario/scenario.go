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

// Package scenario loads scenario/constants/assumptions JSON files off
// disk, resolves ${key} constant references, and translates the result
// into the ldi package's ModelConfig. None of this lives in package ldi
// itself — the engine core takes no file paths and performs no I/O.
package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/penny-vault/ldi-engine/ldi"
	log "github.com/sirupsen/logrus"
)

type liabilityEntry struct {
	Type          string  `json:"type"`
	StartDate     string  `json:"start_date"`
	AmountToday   float64 `json:"amount_today"`
	DurationYears int     `json:"duration_years"`
	// InflationRate is accepted for scenario-file compatibility but never
	// consumed: pv_remaining is built from the run's Assumptions schedule,
	// not a per-liability flat rate, so there is nothing to override.
	InflationRate float64 `json:"inflation_rate"`
}

type contributionEntry struct {
	Type      string  `json:"type"`
	Amount    float64 `json:"amount"`
	Frequency string  `json:"frequency"`
	Month     int     `json:"month"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Date      string  `json:"date"`
}

type scenarioFile struct {
	Name          string              `json:"name"`
	AssetsToday   float64             `json:"assets_today"`
	Liabilities   []liabilityEntry    `json:"liabilities"`
	EndDate       string              `json:"end_date"`
	Contributions []contributionEntry `json:"contributions"`
}

// Scenario is a fully-loaded, constants-resolved scenario file, ready to
// hand to ldi.NewModel / ldi.RunScenario, alongside its content Fingerprint.
type Scenario struct {
	Config      ldi.ModelConfig
	Fingerprint string
}

// Load reads scenarioPath, resolves ${key} references against
// constantsPath (if it exists), and converts the result into a
// ldi.ModelConfig valued as of valuationDate. valuationDate is read once by
// the caller (the CLI entry point) rather than inside this package or
// package ldi, so a single CLI invocation evaluates every scenario — and
// every solver iteration within it — against the same frozen "today".
func Load(scenarioPath, constantsPath string, valuationDate time.Time) (*Scenario, error) {
	raw, err := os.ReadFile(scenarioPath)
	if err != nil {
		log.WithField("path", scenarioPath).Error("could not read scenario file")
		return nil, fmt.Errorf("scenario: read %s: %w", scenarioPath, err)
	}

	constants := map[string]interface{}{}
	if constantsPath != "" {
		if cRaw, err := os.ReadFile(constantsPath); err == nil {
			if err := json.Unmarshal(cRaw, &constants); err != nil {
				return nil, fmt.Errorf("scenario: parse constants %s: %w", constantsPath, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("scenario: read constants %s: %w", constantsPath, err)
		}
	}

	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("scenario: parse %s: %w", scenarioPath, err)
	}
	resolved := resolveRefs(generic, constants)

	resolvedJSON, err := json.Marshal(resolved)
	if err != nil {
		return nil, fmt.Errorf("scenario: re-marshal resolved %s: %w", scenarioPath, err)
	}

	var file scenarioFile
	if err := json.Unmarshal(resolvedJSON, &file); err != nil {
		return nil, fmt.Errorf("scenario: decode resolved %s: %w", scenarioPath, err)
	}

	cfg, err := file.toModelConfig(valuationDate)
	if err != nil {
		return nil, err
	}

	fp, err := fingerprint(resolvedJSON)
	if err != nil {
		return nil, err
	}

	return &Scenario{Config: cfg, Fingerprint: fp}, nil
}

// LoadAll reads every *.json file in dir except constantsPath's base name,
// matching original_source/src/ldi/cli.py's "run --all" glob.
func LoadAll(dir, constantsPath string, valuationDate time.Time) ([]*Scenario, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("scenario: glob %s: %w", dir, err)
	}

	constantsBase := filepath.Base(constantsPath)
	scenarios := make([]*Scenario, 0, len(matches))
	for _, m := range matches {
		if filepath.Base(m) == constantsBase {
			continue
		}
		s, err := Load(m, constantsPath, valuationDate)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

func (f scenarioFile) toModelConfig(valuationDate time.Time) (ldi.ModelConfig, error) {
	cfg := ldi.ModelConfig{
		Name:          f.Name,
		AssetsToday:   f.AssetsToday,
		ValuationDate: valuationDate,
	}

	for _, l := range f.Liabilities {
		start, err := time.Parse("2006-01-02", l.StartDate)
		if err != nil {
			return ldi.ModelConfig{}, fmt.Errorf("scenario: liability start_date %q: %w", l.StartDate, err)
		}
		cfg.Liabilities = append(cfg.Liabilities, ldi.LiabilityConfig{
			Type:          l.Type,
			StartDate:     start,
			AmountToday:   l.AmountToday,
			DurationYears: l.DurationYears,
		})
	}

	if f.EndDate != "" {
		end, err := time.Parse("2006-01-02", f.EndDate)
		if err != nil {
			return ldi.ModelConfig{}, fmt.Errorf("scenario: end_date %q: %w", f.EndDate, err)
		}
		cfg.EndDate = &end
	}

	for _, c := range f.Contributions {
		entry := ldi.ContributionConfig{
			Type:      c.Type,
			Amount:    c.Amount,
			Frequency: c.Frequency,
			Month:     c.Month,
		}
		if c.StartDate != "" {
			d, err := time.Parse("2006-01-02", c.StartDate)
			if err != nil {
				return ldi.ModelConfig{}, fmt.Errorf("scenario: contribution start_date %q: %w", c.StartDate, err)
			}
			entry.StartDate = &d
		}
		if c.EndDate != "" {
			d, err := time.Parse("2006-01-02", c.EndDate)
			if err != nil {
				return ldi.ModelConfig{}, fmt.Errorf("scenario: contribution end_date %q: %w", c.EndDate, err)
			}
			entry.EndDate = &d
		}
		if c.Date != "" {
			d, err := time.Parse("2006-01-02", c.Date)
			if err != nil {
				return ldi.ModelConfig{}, fmt.Errorf("scenario: contribution date %q: %w", c.Date, err)
			}
			entry.Date = &d
		}
		cfg.Contributions = append(cfg.Contributions, entry)
	}

	return cfg, nil
}
