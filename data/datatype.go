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

// Table describes a database table written by CopyFrom
type Table struct {
	Name    string
	Columns []string
}

const (
	LibraryTable     = "library"
	InstitutionTable = "institutions"
	ResultTable      = "institution_results"
	RankingTable     = "institution_rankings"
	ExtractTable     = "extracts"
	RunTable         = "runs"
)

var (
	Results = Table{
		Name: ResultTable,
		Columns: []string{
			"institution_id",
			"academic_year",
			"primary_expected_pct",
			"primary_higher_pct",
			"secondary_expected_pct",
			"secondary_higher_pct",
		},
	}

	Rankings = Table{
		Name: RankingTable,
		Columns: []string{
			"institution_id",
			"academic_year",
			"rank",
			"total_institutions",
			"percentile",
			"primary_expected_pct",
			"primary_higher_pct",
			"gap",
			"secondary_expected_pct",
			"secondary_higher_pct",
		},
	}
)

// ResultValues returns the record in Results column order
func (record *InstitutionYearRecord) ResultValues() []any {
	return []any{
		record.InstitutionID,
		record.AcademicYear,
		record.PrimaryExpectedPct,
		record.PrimaryHigherPct,
		record.SecondaryExpectedPct,
		record.SecondaryHigherPct,
	}
}

// RankingValues returns the row in Rankings column order
func (row *RankingRow) RankingValues() []any {
	return []any{
		row.InstitutionID,
		row.AcademicYear,
		row.Rank,
		row.TotalInstitutions,
		row.Percentile,
		row.PrimaryExpectedPct,
		row.PrimaryHigherPct,
		row.Gap,
		row.SecondaryExpectedPct,
		row.SecondaryHigherPct,
	}
}
