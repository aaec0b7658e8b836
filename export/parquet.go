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
package export

import (
	"github.com/rs/zerolog/log"
	"github.com/schoolchecker/schoolrank/library"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

// Row is the published form of a ranking row. Absent criteria stay null.
type Row struct {
	InstitutionID     string  `json:"institution_id" parquet:"name=institution_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Name              string  `json:"name" parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	LocalAuthority    string  `json:"local_authority" parquet:"name=local_authority, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	AcademicYear      int32   `json:"academic_year" parquet:"name=academic_year, type=INT32"`
	Rank              int32   `json:"rank" parquet:"name=rank, type=INT32"`
	TotalInstitutions int32   `json:"total_institutions" parquet:"name=total_institutions, type=INT32"`
	Percentile        float64 `json:"percentile" parquet:"name=percentile, type=DOUBLE"`

	PrimaryExpectedPct   *float64 `json:"primary_expected_pct" parquet:"name=primary_expected_pct, type=DOUBLE, repetitiontype=OPTIONAL"`
	PrimaryHigherPct     *float64 `json:"primary_higher_pct" parquet:"name=primary_higher_pct, type=DOUBLE, repetitiontype=OPTIONAL"`
	Gap                  *float64 `json:"gap" parquet:"name=gap, type=DOUBLE, repetitiontype=OPTIONAL"`
	SecondaryExpectedPct *float64 `json:"secondary_expected_pct" parquet:"name=secondary_expected_pct, type=DOUBLE, repetitiontype=OPTIONAL"`
	SecondaryHigherPct   *float64 `json:"secondary_higher_pct" parquet:"name=secondary_higher_pct, type=DOUBLE, repetitiontype=OPTIONAL"`
}

// FromStandings converts stored standings into published rows
func FromStandings(standings []*library.Standing) []*Row {
	rows := make([]*Row, len(standings))
	for idx, standing := range standings {
		rows[idx] = &Row{
			InstitutionID:        standing.InstitutionID,
			Name:                 standing.Name,
			LocalAuthority:       standing.LocalAuthority,
			AcademicYear:         int32(standing.AcademicYear),
			Rank:                 int32(standing.Rank),
			TotalInstitutions:    int32(standing.TotalInstitutions),
			Percentile:           standing.Percentile,
			PrimaryExpectedPct:   standing.PrimaryExpectedPct,
			PrimaryHigherPct:     standing.PrimaryHigherPct,
			Gap:                  standing.Gap,
			SecondaryExpectedPct: standing.SecondaryExpectedPct,
			SecondaryHigherPct:   standing.SecondaryHigherPct,
		}
	}
	return rows
}

// Parquet writes rows to fn with ZSTD compression
func Parquet(rows []*Row, fn string) error {
	var err error

	fh, err := local.NewLocalFileWriter(fn)
	if err != nil {
		log.Error().Err(err).Str("FileName", fn).Msg("cannot create local file")
		return err
	}
	defer fh.Close()

	pw, err := writer.NewParquetWriter(fh, new(Row), 4)
	if err != nil {
		log.Error().Err(err).Msg("parquet write failed")
		return err
	}

	pw.RowGroupSize = 128 * 1024 * 1024 // 128M
	pw.PageSize = 8 * 1024              // 8k
	pw.CompressionType = parquet.CompressionCodec_ZSTD

	for _, r := range rows {
		if err = pw.Write(r); err != nil {
			log.Error().Err(err).Str("InstitutionID", r.InstitutionID).Int32("Year", r.AcademicYear).Msg("parquet write failed for row")
			return err
		}
	}

	if err = pw.WriteStop(); err != nil {
		log.Error().Err(err).Msg("parquet write failed")
		return err
	}

	log.Info().Int("NumRecords", len(rows)).Str("FileName", fn).Msg("parquet write finished")
	return nil
}
