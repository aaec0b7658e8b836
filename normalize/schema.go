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
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// YearSchema names the extract columns holding each field for one academic
// year. Publishers rename and move columns between years; every year-specific
// difference lives here so ranking never depends on the extract layout.
type YearSchema struct {
	Year int `mapstructure:"year" toml:"year"`

	// RecordType is the column distinguishing institution rows from local
	// authority and national summary rows; InstitutionRecord is the value marking
	// an institution. An empty RecordType accepts every row.
	RecordType        string `mapstructure:"record_type" toml:"record_type"`
	InstitutionRecord string `mapstructure:"institution_record" toml:"institution_record"`

	InstitutionID  string `mapstructure:"institution_id" toml:"institution_id"`
	Name           string `mapstructure:"name" toml:"name"`
	LocalAuthority string `mapstructure:"local_authority" toml:"local_authority"`

	PrimaryExpected   string `mapstructure:"primary_expected" toml:"primary_expected"`
	PrimaryHigher     string `mapstructure:"primary_higher" toml:"primary_higher"`
	SecondaryExpected string `mapstructure:"secondary_expected" toml:"secondary_expected"`
	SecondaryHigher   string `mapstructure:"secondary_higher" toml:"secondary_higher"`
}

// RawRecord holds the untouched tokens of one extract row
type RawRecord struct {
	RecordType     string
	InstitutionID  string
	Name           string
	LocalAuthority string

	PrimaryExpected   string
	PrimaryHigher     string
	SecondaryExpected string
	SecondaryHigher   string
}

// ks2Schema is the layout of the key stage 2 school-level performance extract
// (england_ks2final.csv). Reading, writing and maths combined is the primary
// subject group; grammar, punctuation and spelling the secondary one.
func ks2Schema(year int) YearSchema {
	return YearSchema{
		Year:              year,
		RecordType:        "RECTYPE",
		InstitutionRecord: "1",
		InstitutionID:     "URN",
		Name:              "SCHNAME",
		LocalAuthority:    "LEA",
		PrimaryExpected:   "PTRWM_EXP",
		PrimaryHigher:     "PTRWM_HIGH",
		SecondaryExpected: "PTGPS_EXP",
		SecondaryHigher:   "PTGPS_HIGH",
	}
}

// Schemas maps academic years to their extract layout
type Schemas map[int]YearSchema

// DefaultSchemas returns the layouts of the published key stage 2 extracts.
// No results were published for 2020 and 2021.
func DefaultSchemas() Schemas {
	schemas := make(Schemas)
	for _, year := range []int{2016, 2017, 2018, 2019, 2022, 2023, 2024} {
		schemas[year] = ks2Schema(year)
	}
	return schemas
}

// Lookup returns the schema for year
func (schemas Schemas) Lookup(year int) (YearSchema, error) {
	schema, ok := schemas[year]
	if !ok {
		return YearSchema{}, fmt.Errorf("%w: %d", ErrNoSchema, year)
	}
	return schema, nil
}

// Years returns the configured years in ascending order
func (schemas Schemas) Years() []int {
	years := make([]int, 0, len(schemas))
	for year := range schemas {
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}

// WithOverrides returns a copy of schemas with overrides applied. Overrides are
// keyed by academic year; a year without a layout starts from the key stage 2
// one.
func (schemas Schemas) WithOverrides(overrides map[string]YearSchema) (Schemas, error) {
	merged := make(Schemas, len(schemas)+len(overrides))
	for year, schema := range schemas {
		merged[year] = schema
	}

	for key, override := range overrides {
		year, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || year <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidYear, key)
		}

		base, ok := merged[year]
		if !ok {
			base = ks2Schema(year)
		}

		merged[year] = base.Merge(override)
	}

	return merged, nil
}

// Merge returns schema with every non-empty column of override applied
func (schema YearSchema) Merge(override YearSchema) YearSchema {
	merged := schema

	set := func(dst *string, val string) {
		if val != "" {
			*dst = val
		}
	}

	set(&merged.RecordType, override.RecordType)
	set(&merged.InstitutionRecord, override.InstitutionRecord)
	set(&merged.InstitutionID, override.InstitutionID)
	set(&merged.Name, override.Name)
	set(&merged.LocalAuthority, override.LocalAuthority)
	set(&merged.PrimaryExpected, override.PrimaryExpected)
	set(&merged.PrimaryHigher, override.PrimaryHigher)
	set(&merged.SecondaryExpected, override.SecondaryExpected)
	set(&merged.SecondaryHigher, override.SecondaryHigher)

	return merged
}

// required returns the columns an extract must contain for this schema
func (schema YearSchema) required() []string {
	cols := []string{
		schema.InstitutionID,
		schema.PrimaryExpected,
		schema.PrimaryHigher,
		schema.SecondaryExpected,
		schema.SecondaryHigher,
	}

	for _, optional := range []string{schema.RecordType, schema.Name, schema.LocalAuthority} {
		if optional != "" {
			cols = append(cols, optional)
		}
	}

	return cols
}

// Check verifies that header contains every column the schema reads
func (schema YearSchema) Check(header map[string]string) error {
	var missing []string
	for _, col := range schema.required() {
		if col == "" {
			missing = append(missing, "<unset>")
			continue
		}
		if _, ok := header[col]; !ok {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s (year %d)", ErrMissingColumn, strings.Join(missing, ", "), schema.Year)
	}

	return nil
}

// Resolve picks the schema's tokens out of a header-keyed extract row
func (schema YearSchema) Resolve(row map[string]string) RawRecord {
	get := func(col string) string {
		if col == "" {
			return ""
		}
		return row[col]
	}

	return RawRecord{
		RecordType:        get(schema.RecordType),
		InstitutionID:     get(schema.InstitutionID),
		Name:              get(schema.Name),
		LocalAuthority:    get(schema.LocalAuthority),
		PrimaryExpected:   get(schema.PrimaryExpected),
		PrimaryHigher:     get(schema.PrimaryHigher),
		SecondaryExpected: get(schema.SecondaryExpected),
		SecondaryHigher:   get(schema.SecondaryHigher),
	}
}

// Normalizer returns a normalizer configured for the schema's year
func (schema YearSchema) Normalizer() *Normalizer {
	normalizer := &Normalizer{Year: schema.Year}
	if schema.RecordType != "" {
		normalizer.InstitutionRecord = schema.InstitutionRecord
	}
	return normalizer
}
