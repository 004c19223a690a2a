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
	"os"
	"time"

	"github.com/penny-vault/ldi-engine/allocator"
	"github.com/penny-vault/ldi-engine/assumptions"
	"github.com/penny-vault/ldi-engine/ldi"
	"github.com/penny-vault/ldi-engine/scenario"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	runFiles       []string
	runAll         bool
	runDir         string
	runAllocator   string
	runDebugFrames bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringSliceVarP(&runFiles, "file", "f", nil, "Scenario JSON file(s)")
	runCmd.Flags().BoolVarP(&runAll, "all", "a", false, "Run every scenario JSON file in --dir")
	runCmd.Flags().StringVar(&runDir, "dir", "runs", "Directory to scan with --all")
	runCmd.Flags().StringVar(&runAllocator, "allocator", "glidepath", "Allocation strategy: glidepath or equity-only")
	runCmd.Flags().BoolVar(&runDebugFrames, "debug-frames", false, "Dump each bucket's monthly projection frame as a table")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one or more LDI scenarios",
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runMain())
	},
}

func runMain() int {
	alloc, err := resolveAllocator(runAllocator)
	if err != nil {
		log.Error().Err(err).Msg("invalid allocator")
		return 1
	}

	assumptionsPath := viper.GetString("assumptions")
	constantsPath := viper.GetString("constants")

	a, err := scenario.LoadAssumptions(assumptionsPath)
	if err != nil {
		log.Error().Err(err).Str("path", assumptionsPath).Msg("could not load assumptions")
		return 1
	}

	valuationDate := time.Now()

	var scenarios []*scenario.Scenario
	switch {
	case runAll:
		scenarios, err = scenario.LoadAll(runDir, constantsPath, valuationDate)
	case len(runFiles) > 0:
		for _, f := range runFiles {
			s, loadErr := scenario.Load(f, constantsPath, valuationDate)
			if loadErr != nil {
				err = loadErr
				break
			}
			scenarios = append(scenarios, s)
		}
	default:
		fmt.Println("Specify --file or --all")
		return 1
	}
	if err != nil {
		log.Error().Err(err).Msg("could not load scenarios")
		return 1
	}
	if len(scenarios) == 0 {
		fmt.Printf("No JSON files found in %s\n", runDir)
		return 1
	}

	results := make([]ldi.Result, 0, len(scenarios))
	for _, s := range scenarios {
		fmt.Printf("Running scenario: %s\n", s.Config.Name)
		log.Debug().Str("fingerprint", s.Fingerprint).Str("scenario", s.Config.Name).Msg("resolved scenario")

		result, err := ldi.RunScenario(s.Config, a, alloc)
		if err != nil {
			log.Error().Err(err).Str("scenario", s.Config.Name).Msg("scenario run failed")
			return 1
		}
		results = append(results, result)

		if runDebugFrames {
			if err := dumpFrames(s.Config, a, alloc); err != nil {
				log.Error().Err(err).Str("scenario", s.Config.Name).Msg("could not dump debug frames")
			}
		}
	}

	printReport(results)
	return 0
}

// dumpFrames re-runs the model for cfg and prints each bucket's monthly
// projection frame as an ASCII table, for --debug-frames.
func dumpFrames(cfg ldi.ModelConfig, a *assumptions.Assumptions, alloc allocator.Allocator) error {
	m, err := ldi.NewModel(cfg, a, alloc)
	if err != nil {
		return err
	}

	for _, b := range m.RequiredBuckets {
		fmt.Printf("\n%s\n", b.Name)
		fmt.Println(b.Frame.Table())
	}
	fmt.Printf("\n%s\n", m.SurplusBucket.Name)
	fmt.Println(m.SurplusBucket.Frame.Table())

	return nil
}

func resolveAllocator(name string) (allocator.Allocator, error) {
	switch name {
	case "glidepath", "":
		return allocator.NewGlidePath(), nil
	case "equity-only":
		return allocator.NewEquityOnly(), nil
	default:
		return nil, fmt.Errorf("unknown allocator %q", name)
	}
}
