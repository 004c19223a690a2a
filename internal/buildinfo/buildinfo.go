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

// Package buildinfo holds the version stamped into the binary at build
// time by magefile.go's ldflags, and the "version" / "version --deps"
// command's formatting logic.
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
)

var (
	// commitHash contains the current Git revision. Set by magefile.go's
	// -ldflags at build time.
	commitHash string

	// buildDate contains the date of the current build. Set by
	// magefile.go's -ldflags at build time.
	buildDate string

	// ProgramName is the binary name reported by "version".
	ProgramName = "ldi-engine"
)

// Version represents a SemVer 2.0.0 compatible build version.
type Version struct {
	// Major increments for backwards-incompatible changes.
	Major int

	// Minor increments for feature releases.
	Minor int

	// Patch increments for bug-fix releases.
	Patch int

	// Suffix is the pre-release suffix; blank for release versions.
	Suffix string
}

func (v Version) String() string {
	preRelease := ""
	metadata := ""

	if v.Suffix != "" {
		preRelease = fmt.Sprintf("-%s", v.Suffix)
		if commitHash != "" {
			metadata = fmt.Sprintf("+%s", strings.ToLower(commitHash))
		}
	}

	return fmt.Sprintf("%d.%d.%d%s%s", v.Major, v.Minor, v.Patch, preRelease, metadata)
}

// CurrentVersion is the only version in the system.
var CurrentVersion = Version{Major: 1, Minor: 0, Patch: 0, Suffix: "dev"}

// BuildVersionString creates the string printed by "ldi-engine version".
func BuildVersionString() string {
	version := "v" + CurrentVersion.String()

	osArch := runtime.GOOS + "/" + runtime.GOARCH
	goVersion := runtime.Version()

	date := buildDate
	if date == "" {
		date = "unknown"
	}

	return fmt.Sprintf(`%s %s %s

Build Date: %s
Commit: %s
Built with: %s`,
		ProgramName, version, osArch, date, commitHash, goVersion)
}

// DepString formats GetDependencyList for "version --deps".
func DepString() string {
	return "Dependencies:\n\n" + strings.Join(GetDependencyList(), "\n")
}

// GetDependencyList returns a sorted dependency list formatted
// package="version".
func GetDependencyList() []string {
	var deps []string

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return deps
	}

	for _, dep := range bi.Deps {
		deps = append(deps, fmt.Sprintf("%s=%q", dep.Path, dep.Version))
	}

	sort.Strings(deps)
	return deps
}
