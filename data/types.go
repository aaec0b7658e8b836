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
package data

import "fmt"

// InstitutionYearRecord is the normalized view of one institution's row in a
// yearly attainment extract. Absent criteria are nil; they are never replaced
// by zero in the stored record.
type InstitutionYearRecord struct {
	InstitutionID  string `json:"institution_id" db:"institution_id"`
	AcademicYear   int    `json:"academic_year" db:"academic_year"`
	Name           string `json:"name" db:"name"`
	LocalAuthority string `json:"local_authority" db:"local_authority"`

	PrimaryExpectedPct   *float64 `json:"primary_expected_pct" db:"primary_expected_pct"`
	PrimaryHigherPct     *float64 `json:"primary_higher_pct" db:"primary_higher_pct"`
	SecondaryExpectedPct *float64 `json:"secondary_expected_pct" db:"secondary_expected_pct"`
	SecondaryHigherPct   *float64 `json:"secondary_higher_pct" db:"secondary_higher_pct"`
}

// RankingRow is the persisted result of ranking one institution within its year
type RankingRow struct {
	InstitutionID     string  `json:"institution_id" db:"institution_id"`
	AcademicYear      int     `json:"academic_year" db:"academic_year"`
	Rank              int     `json:"rank" db:"rank"`
	TotalInstitutions int     `json:"total_institutions" db:"total_institutions"`
	Percentile        float64 `json:"percentile" db:"percentile"`

	PrimaryExpectedPct   *float64 `json:"primary_expected_pct" db:"primary_expected_pct"`
	PrimaryHigherPct     *float64 `json:"primary_higher_pct" db:"primary_higher_pct"`
	Gap                  *float64 `json:"gap" db:"gap"`
	SecondaryExpectedPct *float64 `json:"secondary_expected_pct" db:"secondary_expected_pct"`
	SecondaryHigherPct   *float64 `json:"secondary_higher_pct" db:"secondary_higher_pct"`
}

// IsPrimaryRanked reports whether the record is ordered by the primary criteria.
// Records without a primary expected percentage are fallback records.
func (record *InstitutionYearRecord) IsPrimaryRanked() bool {
	return record.PrimaryExpectedPct != nil
}

// Gap returns primary expected minus primary higher attainment. An absent higher
// percentage counts as zero. Gap is nil for fallback records.
func (record *InstitutionYearRecord) Gap() *float64 {
	if record.PrimaryExpectedPct == nil {
		return nil
	}

	gap := *record.PrimaryExpectedPct - ValueOrZero(record.PrimaryHigherPct)
	return &gap
}

// ValueOrZero dereferences an optional percentage, treating absent as 0
func ValueOrZero(val *float64) float64 {
	if val == nil {
		return 0
	}
	return *val
}

// Float returns a pointer to a copy of val
func Float(val float64) *float64 {
	return &val
}

// FormatPct renders an optional percentage for display
func FormatPct(val *float64) string {
	if val == nil {
		return "-"
	}
	return fmt.Sprintf("%g%%", *val)
}
