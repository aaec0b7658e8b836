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
package normalize

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/schoolchecker/schoolrank/data"
)

// Stats counts what happened to the rows of one extract
type Stats struct {
	Rows       int
	Accepted   int
	Rejected   int
	Malformed  int
	Duplicates int
}

func (stats Stats) MarshalZerologObject(e *zerolog.Event) {
	e.Int("NumRows", stats.Rows)
	e.Int("NumAccepted", stats.Accepted)
	e.Int("NumRejected", stats.Rejected)
	e.Int("NumMalformed", stats.Malformed)
	e.Int("NumDuplicates", stats.Duplicates)
}

// Batch normalizes every row of an extract for the schema's year. Data quality
// problems are logged and counted, never returned; an error is only returned
// when the extract does not match the schema.
func Batch(ctx context.Context, schema YearSchema, rows []map[string]string) ([]*data.InstitutionYearRecord, Stats, error) {
	logger := zerolog.Ctx(ctx).With().Int("Year", schema.Year).Logger()
	stats := Stats{Rows: len(rows)}

	if len(rows) == 0 {
		return []*data.InstitutionYearRecord{}, stats, nil
	}

	if err := schema.Check(rows[0]); err != nil {
		return nil, stats, err
	}

	normalizer := schema.Normalizer()
	records := make([]*data.InstitutionYearRecord, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))

	for idx, row := range rows {
		record, warnings, err := normalizer.Normalize(schema.Resolve(row))
		if err != nil {
			stats.Rejected++
			if errors.Is(err, ErrNotInstitution) {
				logger.Debug().Int("Line", idx+2).Msg("skipping summary row")
			} else {
				logger.Warn().Err(err).Int("Line", idx+2).Msg("rejecting extract row")
			}
			continue
		}

		if _, ok := seen[record.InstitutionID]; ok {
			stats.Duplicates++
			logger.Warn().Str("InstitutionID", record.InstitutionID).Int("Line", idx+2).Msg("duplicate institution in extract, keeping first row")
			continue
		}
		seen[record.InstitutionID] = struct{}{}

		for _, warning := range warnings {
			stats.Malformed++
			logger.Warn().Err(warning).Str("InstitutionID", record.InstitutionID).Msg("field treated as not reported")
		}

		records = append(records, record)
	}

	stats.Accepted = len(records)
	return records, stats, nil
}
