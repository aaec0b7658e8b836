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
package percentile

import (
	"errors"
	"fmt"

	"github.com/schoolchecker/schoolrank/data"
	"github.com/schoolchecker/schoolrank/ranking"
	"github.com/shopspring/decimal"
)

var (
	ErrPopulationMismatch = errors.New("population count does not match the number of ranked rows")
	ErrRankOutOfRange     = errors.New("rank is outside the population")
)

var hundred = decimal.NewFromInt(100)

// Percentile returns the share of the population an institution at rank
// outperforms or ties, ((total - rank + 1) / total) * 100, rounded half-up to two
// decimal places. The caller guarantees 1 <= rank <= total.
func Percentile(rank, total int) float64 {
	above := decimal.NewFromInt(int64(total - rank + 1))
	pct := above.Div(decimal.NewFromInt(int64(total))).Mul(hundred)
	return pct.Round(2).InexactFloat64()
}

// Derive converts a ranked population into persistence-ready rows. total must
// be the size of the whole population that was ranked; an empty population
// yields no rows.
func Derive(ranked []ranking.Ranked, total int) ([]data.RankingRow, error) {
	if total == 0 && len(ranked) == 0 {
		return []data.RankingRow{}, nil
	}

	if total != len(ranked) {
		return nil, fmt.Errorf("%w: total %d, ranked %d", ErrPopulationMismatch, total, len(ranked))
	}

	rows := make([]data.RankingRow, len(ranked))
	for idx, entry := range ranked {
		if entry.Rank < 1 || entry.Rank > total {
			return nil, fmt.Errorf("%w: rank %d of %d", ErrRankOutOfRange, entry.Rank, total)
		}

		record := entry.Record
		rows[idx] = data.RankingRow{
			InstitutionID:        record.InstitutionID,
			AcademicYear:         record.AcademicYear,
			Rank:                 entry.Rank,
			TotalInstitutions:    total,
			Percentile:           Percentile(entry.Rank, total),
			PrimaryExpectedPct:   record.PrimaryExpectedPct,
			PrimaryHigherPct:     record.PrimaryHigherPct,
			Gap:                  record.Gap(),
			SecondaryExpectedPct: record.SecondaryExpectedPct,
			SecondaryHigherPct:   record.SecondaryHigherPct,
		}
	}

	return rows, nil
}
