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
// Package ranking orders the institutions of one academic year and assigns
// dense tie ranks.
//
// Institutions with a primary expected percentage always rank above those
// without one. Primary-ranked institutions are compared on, in order:
//
//  1. primary expected percentage, descending
//  2. primary higher percentage, descending
//  3. gap between expected and higher, ascending
//  4. secondary expected percentage, descending
//  5. secondary higher percentage, descending
//
// Fallback institutions are compared on the secondary pair only. Absent values
// compare as 0; the records themselves are never modified.
package ranking

import (
	"cmp"

	"github.com/schoolchecker/schoolrank/data"
)

// criteria is the comparison key of a record
type criteria struct {
	primary bool

	expected          float64
	higher            float64
	gap               float64
	secondaryExpected float64
	secondaryHigher   float64
}

func criteriaOf(record *data.InstitutionYearRecord) criteria {
	key := criteria{
		primary:           record.IsPrimaryRanked(),
		secondaryExpected: data.ValueOrZero(record.SecondaryExpectedPct),
		secondaryHigher:   data.ValueOrZero(record.SecondaryHigherPct),
	}

	if key.primary {
		key.expected = *record.PrimaryExpectedPct
		key.higher = data.ValueOrZero(record.PrimaryHigherPct)
		key.gap = key.expected - key.higher
	}

	return key
}

// compare orders two keys; negative means a ranks above b
func (a criteria) compare(b criteria) int {
	if a.primary != b.primary {
		if a.primary {
			return -1
		}
		return 1
	}

	if a.primary {
		if c := cmp.Compare(b.expected, a.expected); c != 0 {
			return c
		}
		if c := cmp.Compare(b.higher, a.higher); c != 0 {
			return c
		}
		if c := cmp.Compare(a.gap, b.gap); c != 0 {
			return c
		}
	}

	if c := cmp.Compare(b.secondaryExpected, a.secondaryExpected); c != 0 {
		return c
	}

	return cmp.Compare(b.secondaryHigher, a.secondaryHigher)
}

// Compare returns a negative number when a ranks above b, a positive number when
// b ranks above a and 0 when the two are tied.
func Compare(a, b *data.InstitutionYearRecord) int {
	return criteriaOf(a).compare(criteriaOf(b))
}

// Tied reports whether a and b share a rank. It uses exactly the fields Compare
// uses, so tie groups always agree with the sort order.
func Tied(a, b *data.InstitutionYearRecord) bool {
	return Compare(a, b) == 0
}
