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
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/schoolchecker/schoolrank/data"
)

var ErrYearMismatch = errors.New("record does not belong to academic year")

// ReplaceRecords replaces every stored record of year with records and updates
// the institution directory. Either all of it is written or none of it is.
func (myLibrary *Library) ReplaceRecords(ctx context.Context, year int, records []*data.InstitutionYearRecord) error {
	for _, record := range records {
		if record.AcademicYear != year {
			return fmt.Errorf("%w: %s is in %d not %d", ErrYearMismatch, record.InstitutionID, record.AcademicYear, year)
		}
	}

	logger := zerolog.Ctx(ctx)

	err := myLibrary.withTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, record := range records {
			record.Institution().QueueUpsert(batch)
		}

		if batch.Len() > 0 {
			if err := tx.SendBatch(ctx, batch).Close(); err != nil {
				return err
			}
		}

		if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE academic_year=$1", data.Results.Name), year); err != nil {
			return err
		}

		numRows, err := tx.CopyFrom(ctx, pgx.Identifier{data.Results.Name}, data.Results.Columns,
			pgx.CopyFromSlice(len(records), func(idx int) ([]any, error) {
				return records[idx].ResultValues(), nil
			}))
		if err != nil {
			return err
		}

		logger.Debug().Int("Year", year).Int64("NumRows", numRows).Msg("replaced institution records")

		return nil
	})

	if err == nil {
		Directory().Load(records...)
	}

	return err
}

// LoadRecords returns every stored record of year, labelled from the directory
func (myLibrary *Library) LoadRecords(ctx context.Context, year int) ([]*data.InstitutionYearRecord, error) {
	records := make([]*data.InstitutionYearRecord, 0)
	err := pgxscan.Select(ctx, myLibrary.Pool, &records, `SELECT
	r.institution_id, r.academic_year,
	coalesce(i.name, '') AS name, coalesce(i.local_authority, '') AS local_authority,
	r.primary_expected_pct, r.primary_higher_pct, r.secondary_expected_pct, r.secondary_higher_pct
FROM institution_results r
LEFT JOIN institutions i ON i.id = r.institution_id
WHERE r.academic_year = $1
ORDER BY r.institution_id`, year)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// Years returns the academic years that have stored records, oldest first
func (myLibrary *Library) Years(ctx context.Context) ([]int, error) {
	years := make([]int, 0)
	err := pgxscan.Select(ctx, myLibrary.Pool, &years, "SELECT DISTINCT academic_year FROM institution_results ORDER BY academic_year")
	return years, err
}
