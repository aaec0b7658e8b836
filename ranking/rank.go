// Copyright 2025
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
package ranking

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/schoolchecker/schoolrank/data"
)

var ErrMixedYears = errors.New("records span more than one academic year")

// Ranked pairs a record with its position in the year's ordering
type Ranked struct {
	Record *data.InstitutionYearRecord
	Rank   int
}

type keyed struct {
	record *data.InstitutionYearRecord
	key    criteria
}

// Rank orders a single year's population and assigns dense tie ranks: tied
// institutions share the 1-based position of the first member of their group and
// the next distinct institution takes its own position. Tied institutions are
// listed by InstitutionID so repeated runs produce the same row order.
//
// The input slice is not modified. An empty population yields an empty result.
func Rank(records []*data.InstitutionYearRecord) ([]Ranked, error) {
	if len(records) == 0 {
		return []Ranked{}, nil
	}

	year := records[0].AcademicYear
	entries := make([]keyed, len(records))
	for idx, record := range records {
		if record.AcademicYear != year {
			return nil, fmt.Errorf("%w: %d and %d", ErrMixedYears, year, record.AcademicYear)
		}
		entries[idx] = keyed{record: record, key: criteriaOf(record)}
	}

	slices.SortStableFunc(entries, func(a, b keyed) int {
		if c := a.key.compare(b.key); c != 0 {
			return c
		}
		return strings.Compare(a.record.InstitutionID, b.record.InstitutionID)
	})

	ranked := make([]Ranked, len(entries))
	rank := 1
	for idx, entry := range entries {
		if idx > 0 && entry.key.compare(entries[idx-1].key) != 0 {
			rank = idx + 1
		}
		ranked[idx] = Ranked{Record: entry.record, Rank: rank}
	}

	return ranked, nil
}
