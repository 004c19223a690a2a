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
	"errors"
	"fmt"
)

// ErrDidNotConverge is never returned by the solvers themselves: a solver
// that does not converge is not an error, it returns its last midpoint after
// SolverMaxIter iterations. No code in this module returns or wraps this
// sentinel.
var ErrDidNotConverge = errors.New("ldi: solver did not converge within MAX_ITER")

// ConfigInvalid wraps a scenario/config error: a missing required field or
// an unknown liability/contribution type or frequency. An asset name not
// present in the run's Assumptions is reported as assumptions.ConfigInvalid.
type ConfigInvalid struct {
	Reason string
	Err    error
}

func (e *ConfigInvalid) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config invalid: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("config invalid: %s", e.Reason)
}

func (e *ConfigInvalid) Unwrap() error { return e.Err }

func newConfigInvalid(reason string, cause error) *ConfigInvalid {
	return &ConfigInvalid{Reason: reason, Err: cause}
}

// ScheduleMismatch is returned when a contribution's month falls outside a
// bucket's or the model's month index.
type ScheduleMismatch struct {
	Reason string
}

func (e *ScheduleMismatch) Error() string {
	return fmt.Sprintf("schedule mismatch: %s", e.Reason)
}

func newScheduleMismatch(reason string) *ScheduleMismatch {
	return &ScheduleMismatch{Reason: reason}
}
