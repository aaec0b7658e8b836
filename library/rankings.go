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
package library

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/schoolchecker/schoolrank/data"
)

// Standing is a ranking row labelled with the institution's directory entry
type Standing struct {
	data.RankingRow
	Name           string `json:"name" db:"name"`
	LocalAuthority string `json:"local_authority" db:"local_authority"`
}

// YearCount summarizes the stored data of one academic year
type YearCount struct {
	AcademicYear    int `db:"academic_year"`
	NumInstitutions int `db:"num_institutions"`
	NumRanked       int `db:"num_ranked"`
}

// ReplaceRankings atomically replaces the ranking rows of year
func (myLibrary *Library) ReplaceRankings(ctx context.Context, year int, rows []data.RankingRow) error {
	for idx := range rows {
		if rows[idx].AcademicYear != year {
			return fmt.Errorf("%w: %s is in %d not %d", ErrYearMismatch, rows[idx].InstitutionID, rows[idx].AcademicYear, year)
		}
	}

	return myLibrary.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE academic_year=$1", data.Rankings.Name), year); err != nil {
			return err
		}

		numRows, err := tx.CopyFrom(ctx, pgx.Identifier{data.Rankings.Name}, data.Rankings.Columns,
			pgx.CopyFromSlice(len(rows), func(idx int) ([]any, error) {
				return rows[idx].RankingValues(), nil
			}))
		if err != nil {
			return err
		}

		zerolog.Ctx(ctx).Debug().Int("Year", year).Int64("NumRows", numRows).Msg("replaced rankings")
		return nil
	})
}

const standingSelect = `SELECT
	r.institution_id, r.academic_year, r.rank, r.total_institutions, r.percentile,
	r.primary_expected_pct, r.primary_higher_pct, r.gap,
	r.secondary_expected_pct, r.secondary_higher_pct,
	coalesce(i.name, '') AS name, coalesce(i.local_authority, '') AS local_authority
FROM institution_rankings r
LEFT JOIN institutions i ON i.id = r.institution_id`

// Rankings returns the ranking rows of year in rank order. A limit of zero or
// less returns every row.
func (myLibrary *Library) Rankings(ctx context.Context, year int, limit int) ([]*Standing, error) {
	standings := make([]*Standing, 0)

	sql := standingSelect + " WHERE r.academic_year = $1 ORDER BY r.rank, r.institution_id"
	args := []any{year}
	if limit > 0 {
		sql += " LIMIT $2"
		args = append(args, limit)
	}

	err := pgxscan.Select(ctx, myLibrary.Pool, &standings, sql, args...)
	return standings, err
}

// RankingFor returns the ranking rows of the given institutions in year
func (myLibrary *Library) RankingFor(ctx context.Context, year int, ids ...string) ([]*Standing, error) {
	standings := make([]*Standing, 0, len(ids))
	err := pgxscan.Select(ctx, myLibrary.Pool, &standings,
		standingSelect+" WHERE r.academic_year = $1 AND r.institution_id = ANY($2) ORDER BY r.rank, r.institution_id",
		year, ids)
	return standings, err
}

// YearCounts returns the number of stored and ranked institutions per year
func (myLibrary *Library) YearCounts(ctx context.Context) ([]*YearCount, error) {
	counts := make([]*YearCount, 0)
	err := pgxscan.Select(ctx, myLibrary.Pool, &counts, `SELECT
	r.academic_year,
	count(*) AS num_institutions,
	count(k.institution_id) AS num_ranked
FROM institution_results r
LEFT JOIN institution_rankings k ON k.academic_year = r.academic_year AND k.institution_id = r.institution_id
GROUP BY r.academic_year
ORDER BY r.academic_year`)
	return counts, err
}
