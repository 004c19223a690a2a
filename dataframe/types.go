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

package dataframe

import "time"

// DataFrame is a structure-of-arrays frame indexed by month-start dates, with
// one named float64 column per series. Used both as the Liability's
// (horizon, pv_remaining) table and as the bucket's projection output.
type DataFrame struct {
	Dates    []time.Time
	ColNames []string
	Vals     [][]float64
}

// DataFrameMap groups DataFrames by name, e.g. one per asset class or bucket.
type DataFrameMap map[string]*DataFrame
