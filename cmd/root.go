// Copyright 2021 JD Fergason
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
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

	"github.com/penny-vault/ldi-engine/internal/appconfig"
	"github.com/penny-vault/ldi-engine/internal/buildinfo"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	appconfig.BindDefaults()

	rootCmd.PersistentFlags().String("assumptions", viper.GetString("assumptions"), "Assumptions file path")
	viper.BindPFlag("assumptions", rootCmd.PersistentFlags().Lookup("assumptions"))

	rootCmd.PersistentFlags().String("constants", viper.GetString("constants"), "Constants file path")
	viper.BindPFlag("constants", rootCmd.PersistentFlags().Lookup("constants"))

	rootCmd.PersistentFlags().String("log-level", viper.GetString("log.level"), "Logging level")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().String("log-output", viper.GetString("log.output"), "Write logs to one of: `stdout` or `stderr`")
	viper.BindPFlag("log.output", rootCmd.PersistentFlags().Lookup("log-output"))

	rootCmd.PersistentFlags().Bool("log-report-caller", viper.GetBool("log.report_caller"), "Log the function name that called the log statement")
	viper.BindPFlag("log.report_caller", rootCmd.PersistentFlags().Lookup("log-report-caller"))

	cobra.OnInitialize(appconfig.SetupLogging)
}

var rootCmd = &cobra.Command{
	Use:     "ldi-engine",
	Version: buildinfo.CurrentVersion.String(),
	Short:   "A deterministic liability-driven investment projection engine",
	Long:    `Projects required and surplus asset buckets against a liability schedule, computing funded status and the lump-sum or monthly contribution needed to reach full funding.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
