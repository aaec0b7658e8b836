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

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/schoolchecker/schoolrank/data"
)

// SaveRun records the outcome of an import or rank run
func (myLibrary *Library) SaveRun(ctx context.Context, summary *data.RunSummary) error {
	_, err := myLibrary.Pool.Exec(ctx, `INSERT INTO runs
("id", "extract_id", "kind", "academic_year", "start_time", "end_time", "num_rows",
 "num_rejected", "num_malformed", "num_ranked", "status")
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		summary.ID, summary.ExtractID, summary.Kind, summary.AcademicYear, summary.StartTime,
		summary.EndTime, summary.NumRows, summary.NumRejected, summary.NumMalformed,
		summary.NumRanked, string(summary.Status))
	return err
}

// Runs returns the most recent runs, newest first
func (myLibrary *Library) Runs(ctx context.Context, limit int) ([]*data.RunSummary, error) {
	runs := make([]*data.RunSummary, 0, limit)
	err := pgxscan.Select(ctx, myLibrary.Pool, &runs, `SELECT id, extract_id, kind, academic_year,
start_time, end_time, num_rows, num_rejected, num_malformed, num_ranked, status
FROM runs ORDER BY start_time DESC LIMIT $1`, limit)
	return runs, err
}
