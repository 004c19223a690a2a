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

// Package appconfig binds the cobra persistent flags, environment
// variables, and optional TOML config file that configure a run of the
// CLI: default assumptions/constants file paths and the log level/output.
// Per-scenario configuration (assets, liabilities, contributions) is not a
// viper concern; it is loaded from JSON by package scenario.
package appconfig

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"github.com/spf13/viper"
)

// BindDefaults registers the config keys this binary understands, along
// with their environment variable and default values. Call once from
// cmd's init(), before SetupLogging.
func BindDefaults() {
	viper.SetDefault("assumptions", "configs/assumptions.json")
	viper.BindEnv("assumptions", "LDI_ASSUMPTIONS")

	viper.SetDefault("constants", "runs/constants.json")
	viper.BindEnv("constants", "LDI_CONSTANTS")

	viper.SetDefault("log.level", "warning")
	viper.BindEnv("log.level", "LDI_LOG_LEVEL")

	viper.SetDefault("log.output", "stdout")
	viper.BindEnv("log.output", "LDI_LOG_OUTPUT")

	viper.SetDefault("log.report_caller", false)
	viper.BindEnv("log.report_caller", "LDI_LOG_REPORT_CALLER")
}

// SetupLogging configures the global zerolog logger from the bound viper
// keys: level, output destination ("stderr", otherwise stdout), and whether
// to report the caller.
func SetupLogging() {
	level := strings.ToLower(viper.GetString("log.level"))
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	case "trace":
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	switch strings.ToLower(viper.GetString("log.output")) {
	case "stderr":
		log.Logger = log.Output(os.Stderr)
	default:
		log.Logger = log.Output(os.Stdout)
	}

	if viper.GetBool("log.report_caller") {
		log.Logger = log.With().Caller().Logger()
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
}
