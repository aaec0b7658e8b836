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
	"github.com/schoolchecker/schoolrank/data"
	"github.com/schoolchecker/schoolrank/percentile"
	"github.com/schoolchecker/schoolrank/ranking"
)

// RankYear ranks one academic year's full population and derives percentiles.
// The whole population must be supplied: ranks and percentiles are relative to
// every institution in the year, fallback records included.
func RankYear(records []*data.InstitutionYearRecord) ([]data.RankingRow, error) {
	ranked, err := ranking.Rank(records)
	if err != nil {
		return nil, err
	}

	return percentile.Derive(ranked, len(records))
}
