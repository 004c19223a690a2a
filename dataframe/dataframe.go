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

import (
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/gonum/floats"
)

// Copy creates a deep copy of the dataframe, so a bucket can append
// projection columns onto a liability's table without mutating the source.
func (df *DataFrame) Copy() *DataFrame {
	df2 := &DataFrame{
		ColNames: make([]string, len(df.ColNames)),
		Dates:    make([]time.Time, len(df.Dates)),
		Vals:     make([][]float64, len(df.Vals)),
	}

	copy(df2.ColNames, df.ColNames)
	copy(df2.Dates, df.Dates)

	for idx := range df2.Vals {
		df2.Vals[idx] = make([]float64, len(df.Vals[idx]))
		copy(df2.Vals[idx], df.Vals[idx])
	}

	return df2
}

// Len returns the number of rows in the dataframe.
func (df *DataFrame) Len() int {
	return len(df.Dates)
}

// ColCount returns the number of columns in the dataframe.
func (df *DataFrame) ColCount() int {
	return len(df.ColNames)
}

// NameToColumn resolves a column name to its index.
func (df *DataFrame) NameToColumn(name string) (int, error) {
	for idx, col := range df.ColNames {
		if col == name {
			return idx, nil
		}
	}
	return -1, fmt.Errorf("column %q not present in dataframe", name)
}

// Column returns the backing slice for a named column. Callers must treat the
// result as read-only unless they hold the only reference to this frame.
func (df *DataFrame) Column(name string) ([]float64, error) {
	idx, err := df.NameToColumn(name)
	if err != nil {
		return nil, err
	}
	return df.Vals[idx], nil
}

// AppendColumn adds a new named column to the dataframe. Used by
// RequiredBucket/Bucket to grow a liability's (horizon, pv_remaining) table
// into a full projection frame without touching the source columns.
func (df *DataFrame) AppendColumn(name string, vals []float64) error {
	if _, err := df.NameToColumn(name); err == nil {
		return fmt.Errorf("column %q already present in dataframe", name)
	}
	if len(vals) != df.Len() {
		return fmt.Errorf("column %q has %d rows, dataframe has %d", name, len(vals), df.Len())
	}
	df.ColNames = append(df.ColNames, name)
	df.Vals = append(df.Vals, vals)
	return nil
}

// SumRow sums the values of the named columns at rowIdx. Used to check the
// allocation-weights-sum-to-1 invariant on a bucket's per-month allocation
// columns.
func (df *DataFrame) SumRow(rowIdx int, colNames ...string) (float64, error) {
	row := make([]float64, 0, len(colNames))
	for _, name := range colNames {
		col, err := df.Column(name)
		if err != nil {
			return 0, err
		}
		row = append(row, col[rowIdx])
	}
	return floats.Sum(row), nil
}

// SumAcross sums a named column across several frames that share the same
// row index, e.g. aggregating each RequiredBucket's surplus column into the
// contribution stream fed to the SurplusBucket.
func SumAcross(frames []*DataFrame, colName string) ([]float64, error) {
	if len(frames) == 0 {
		return nil, nil
	}
	n := frames[0].Len()
	total := make([]float64, n)
	for _, df := range frames {
		if df.Len() != n {
			return nil, fmt.Errorf("SumAcross: frame length %d does not match %d", df.Len(), n)
		}
		col, err := df.Column(colName)
		if err != nil {
			return nil, err
		}
		floats.Add(total, col)
	}
	return total, nil
}

// Table renders the dataframe as an ASCII table, used by the run command's
// debug-frame dump.
func (df *DataFrame) Table() string {
	if len(df.Dates) == 0 {
		return ""
	}

	tableCols := append([]string{"date"}, df.ColNames...)

	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader(tableCols)
	table.SetBorder(false)

	for rowIdx, date := range df.Dates {
		row := []string{date.Format("2006-01-02")}
		for _, col := range df.Vals {
			row = append(row, fmt.Sprintf("%.4f", col[rowIdx]))
		}
		table.Append(row)
	}

	table.Render()
	return s.String()
}
