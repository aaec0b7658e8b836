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
	"strings"
	"time"

	"github.com/hako/durafmt"
	"github.com/xeonx/timeago"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Summary returns a description of the library in markdown
func (myLibrary *Library) Summary(ctx context.Context) (string, error) {
	p := message.NewPrinter(language.English)
	builder := strings.Builder{}

	fmt.Fprintf(&builder, "# %s\n", myLibrary.Name)
	builder.WriteString("## Details\n\n")
	fmt.Fprintf(&builder, "Database: %s\n\n", myLibrary.DBUrl)

	numExtracts, err := myLibrary.NumExtracts(ctx)
	if err != nil {
		return "", err
	}

	numInstitutions, err := myLibrary.TotalInstitutions(ctx)
	if err != nil {
		return "", err
	}

	totalRecords, err := myLibrary.TotalRecords(ctx)
	if err != nil {
		return "", err
	}

	builder.WriteString(p.Sprintf("  * Active Extracts: %d\n", numExtracts))
	builder.WriteString(p.Sprintf("  * Institutions: %d\n", numInstitutions))
	builder.WriteString(p.Sprintf("  * Total Records: %d\n\n", totalRecords))

	// Last updated time
	lastUpdated, err := myLibrary.LastUpdated(ctx)
	if err != nil {
		return "", err
	}

	if lastUpdated.Equal(time.Time{}) {
		builder.WriteString("Last Updated: Never\n\n")
	} else {
		age := timeago.English.Format(lastUpdated)
		fmt.Fprintf(&builder, "Last Updated: %s (%s)\n\n", age, lastUpdated.Local().Format("02/01/2006"))
	}

	// Academic years
	builder.WriteString("## Academic Years\n\n")

	counts, err := myLibrary.YearCounts(ctx)
	if err != nil {
		return "", err
	}

	if len(counts) == 0 {
		builder.WriteString("No records imported\n\n")
	} else {
		builder.WriteString("| Year | Institutions | Ranked |\n|---|---|---|\n")
		for _, count := range counts {
			builder.WriteString(p.Sprintf("| %d | %d | %d |\n", count.AcademicYear, count.NumInstitutions, count.NumRanked))
		}
		builder.WriteString("\n")
	}

	// Extracts
	builder.WriteString("## Extracts\n\n")

	extracts, err := myLibrary.Extracts(ctx)
	if err != nil {
		return "", err
	}

	for _, extract := range extracts {
		state := ""
		if !extract.Active {
			state = " (inactive)"
		}

		lastRun := "never"
		if !extract.LastRun.Equal(time.Time{}) {
			lastRun = timeago.English.Format(extract.LastRun)
		}

		builder.WriteString(p.Sprintf("  * %d %s%s [%s]\n", extract.AcademicYear, extract.Name, state, extract.ShortID()))
		builder.WriteString(p.Sprintf("    * %s\n", extract.Source))
		builder.WriteString(p.Sprintf("    * last run %s, %d records\n", lastRun, extract.NumRecordsLastImport))
	}

	// Recent runs
	builder.WriteString("\n## Recent Runs\n\n")

	runs, err := myLibrary.Runs(ctx, 10)
	if err != nil {
		return "", err
	}

	for _, run := range runs {
		took := durafmt.Parse(run.EndTime.Sub(run.StartTime)).LimitFirstN(2).String()
		builder.WriteString(p.Sprintf("  * %s %s %d: %s, %d rows, %d ranked (%s, %s)\n",
			run.StartTime.Local().Format("02/01/2006 15:04"), run.Kind, run.AcademicYear, run.Status,
			run.NumRows, run.NumRanked, took, timeago.English.Format(run.StartTime)))
	}

	return builder.String(), nil
}
