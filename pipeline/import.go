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
package pipeline

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/schoolchecker/schoolrank/data"
	"github.com/schoolchecker/schoolrank/normalize"
)

// RowSource produces the header keyed rows of an extract
type RowSource interface {
	Rows(ctx context.Context, source string) ([]map[string]string, error)
}

// RecordStore replaces the stored records of an academic year
type RecordStore interface {
	ReplaceRecords(ctx context.Context, year int, records []*data.InstitutionYearRecord) error
}

// Import reads source, normalizes it with schema and replaces the schema's year
// in store. The returned summary is complete whether or not the import failed.
func Import(ctx context.Context, rows RowSource, store RecordStore, schema normalize.YearSchema, source string) (*data.RunSummary, error) {
	logger := zerolog.Ctx(ctx).With().Int("Year", schema.Year).Str("Source", source).Logger()
	summary := data.NewRunSummary(data.RunKindImport, schema.Year)

	extractRows, err := rows.Rows(ctx, source)
	if err != nil {
		logger.Error().Err(err).Msg("could not read extract")
		summary.Finish(data.RunFailed)
		return summary, err
	}

	records, stats, err := normalize.Batch(logger.WithContext(ctx), schema, extractRows)
	summary.NumRows = stats.Rows
	summary.NumRejected = stats.Rejected + stats.Duplicates
	summary.NumMalformed = stats.Malformed
	if err != nil {
		logger.Error().Err(err).Msg("could not normalize extract")
		summary.Finish(data.RunFailed)
		return summary, err
	}

	if err := store.ReplaceRecords(ctx, schema.Year, records); err != nil {
		logger.Error().Err(err).Msg("could not store records")
		summary.Finish(data.RunFailed)
		return summary, err
	}

	summary.Finish(data.RunSuccess)
	logger.Info().Object("Stats", stats).Msg("imported extract")

	return summary, nil
}
