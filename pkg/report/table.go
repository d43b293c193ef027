// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package report

import (
	"sort"
)

// Table is a titled set of alert rows.
type Table struct {
	Title   string     `json:"title" yaml:"title"`
	Columns []string   `json:"columns" yaml:"columns"`
	Rows    [][]string `json:"rows" yaml:"rows"`
}

// NewTable creates an empty table with the given columns.
func NewTable(title string, columns ...string) *Table {
	return &Table{
		Title:   title,
		Columns: columns,
		Rows:    make([][]string, 0),
	}
}

// AddRow appends a row. Missing cells are padded with empty strings and
// extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// SortBy stably sorts rows with cmp, which returns a negative number when
// a sorts before b.
func (t *Table) SortBy(cmp func(a, b []string) int) {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		return cmp(t.Rows[i], t.Rows[j]) < 0
	})
}

// SortByColumns stably sorts rows by the given column indexes, compared as
// strings, in order.
func (t *Table) SortByColumns(cols ...int) {
	t.SortBy(func(a, b []string) int {
		for _, c := range cols {
			if a[c] < b[c] {
				return -1
			}
			if a[c] > b[c] {
				return 1
			}
		}
		return 0
	})
}
