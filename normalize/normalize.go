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
	"errors"
	"strings"

	"github.com/schoolchecker/schoolrank/data"
)

// Normalizer converts raw extract tokens into typed records for one academic year
type Normalizer struct {
	Year int

	// InstitutionRecord is the record type value of institution rows. When empty
	// every row is treated as an institution.
	InstitutionRecord string
}

// Normalize converts one raw row. Rows that are not institutions, or that have no
// identifier, are rejected with an error. Malformed criterion tokens never reject
// the row: the field is left absent and the problem is returned as a warning.
func (normalizer *Normalizer) Normalize(raw RawRecord) (*data.InstitutionYearRecord, []error, error) {
	if normalizer.InstitutionRecord != "" && strings.TrimSpace(raw.RecordType) != normalizer.InstitutionRecord {
		return nil, nil, ErrNotInstitution
	}

	id := strings.TrimSpace(raw.InstitutionID)
	if id == "" {
		return nil, nil, ErrMissingInstitutionID
	}

	record := &data.InstitutionYearRecord{
		InstitutionID:  id,
		AcademicYear:   normalizer.Year,
		Name:           strings.TrimSpace(raw.Name),
		LocalAuthority: strings.TrimSpace(raw.LocalAuthority),
	}

	var warnings []error

	fields := []struct {
		name string
		tok  string
		dst  **float64
	}{
		{"primary_expected_pct", raw.PrimaryExpected, &record.PrimaryExpectedPct},
		{"primary_higher_pct", raw.PrimaryHigher, &record.PrimaryHigherPct},
		{"secondary_expected_pct", raw.SecondaryExpected, &record.SecondaryExpectedPct},
		{"secondary_higher_pct", raw.SecondaryHigher, &record.SecondaryHigherPct},
	}

	for _, field := range fields {
		val, err := ParsePercent(field.tok)
		if err != nil {
			var malformed *MalformedTokenError
			if errors.As(err, &malformed) {
				malformed.Field = field.name
			}
			warnings = append(warnings, err)
			continue
		}
		*field.dst = val
	}

	return record, warnings, nil
}
