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
)

// LogExtremes logs the n best and n worst ranked rows of a year. name labels
// institutions for the log.
func LogExtremes(ctx context.Context, rows []data.RankingRow, n int, name func(string) string) {
	logger := zerolog.Ctx(ctx)

	if len(rows) == 0 || n <= 0 {
		return
	}

	top := min(n, len(rows))
	bottom := max(len(rows)-n, top)

	log := func(msg string, row data.RankingRow) {
		logger.Info().
			Int("Year", row.AcademicYear).
			Int("Rank", row.Rank).
			Int("TotalInstitutions", row.TotalInstitutions).
			Float64("Percentile", row.Percentile).
			Str("InstitutionID", row.InstitutionID).
			Str("Name", name(row.InstitutionID)).
			Str("PrimaryExpected", data.FormatPct(row.PrimaryExpectedPct)).
			Str("PrimaryHigher", data.FormatPct(row.PrimaryHigherPct)).
			Msg(msg)
	}

	for _, row := range rows[:top] {
		log("top ranked", row)
	}

	for _, row := range rows[bottom:] {
		log("bottom ranked", row)
	}
}
