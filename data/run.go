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

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type RunStatus string

const (
	RunSuccess RunStatus = "success"
	RunFailed  RunStatus = "failed"
)

// RunSummary records the outcome of importing or ranking one academic year
type RunSummary struct {
	ID           uuid.UUID  `db:"id"`
	ExtractID    *uuid.UUID `db:"extract_id"`
	Kind         string     `db:"kind"`
	AcademicYear int        `db:"academic_year"`
	StartTime    time.Time  `db:"start_time"`
	EndTime      time.Time  `db:"end_time"`
	NumRows      int        `db:"num_rows"`
	NumRejected  int        `db:"num_rejected"`
	NumMalformed int        `db:"num_malformed"`
	NumRanked    int        `db:"num_ranked"`
	Status       RunStatus  `db:"status"`
}

const (
	RunKindImport = "import"
	RunKindRank   = "rank"
)

// NewRunSummary starts a summary for the given kind of run
func NewRunSummary(kind string, year int) *RunSummary {
	return &RunSummary{
		ID:           uuid.New(),
		Kind:         kind,
		AcademicYear: year,
		StartTime:    time.Now(),
		Status:       RunFailed,
	}
}

// Finish stamps the end time and final status of the run
func (summary *RunSummary) Finish(status RunStatus) {
	summary.EndTime = time.Now()
	summary.Status = status
}

func (summary *RunSummary) MarshalZerologObject(e *zerolog.Event) {
	e.Str("Kind", summary.Kind)
	e.Int("Year", summary.AcademicYear)
	e.Int("NumRows", summary.NumRows)
	e.Int("NumRejected", summary.NumRejected)
	e.Int("NumMalformed", summary.NumMalformed)
	e.Int("NumRanked", summary.NumRanked)
	e.Str("Status", string(summary.Status))
}
