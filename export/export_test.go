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
package export_test

import (
	"bytes"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/tidwall/gjson"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"

	"github.com/schoolchecker/schoolrank/data"
	"github.com/schoolchecker/schoolrank/export"
	"github.com/schoolchecker/schoolrank/library"
)

func standings() []*library.Standing {
	return []*library.Standing{
		{
			RankingRow: data.RankingRow{
				InstitutionID: "100001", AcademicYear: 2024, Rank: 1, TotalInstitutions: 2, Percentile: 100,
				PrimaryExpectedPct: data.Float(80), PrimaryHigherPct: data.Float(20), Gap: data.Float(60),
			},
			Name:           "Hill Primary",
			LocalAuthority: "201",
		},
		{
			RankingRow: data.RankingRow{
				InstitutionID: "100002", AcademicYear: 2024, Rank: 2, TotalInstitutions: 2, Percentile: 50,
				SecondaryExpectedPct: data.Float(70),
			},
			Name: "Vale Primary",
		},
	}
}

var _ = Describe("Parquet", func() {
	It("writes rows that read back with nulls preserved", func() {
		fn := filepath.Join(GinkgoT().TempDir(), "rankings-2024.parquet")
		Expect(export.Parquet(export.FromStandings(standings()), fn)).To(Succeed())

		fr, err := local.NewLocalFileReader(fn)
		Expect(err).NotTo(HaveOccurred())
		defer fr.Close()

		pr, err := reader.NewParquetReader(fr, new(export.Row), 1)
		Expect(err).NotTo(HaveOccurred())
		defer pr.ReadStop()

		Expect(pr.GetNumRows()).To(Equal(int64(2)))

		rows := make([]export.Row, 2)
		Expect(pr.Read(&rows)).To(Succeed())

		Expect(rows[0].InstitutionID).To(Equal("100001"))
		Expect(rows[0].Name).To(Equal("Hill Primary"))
		Expect(rows[0].Rank).To(Equal(int32(1)))
		Expect(*rows[0].Gap).To(Equal(60.0))
		Expect(rows[0].SecondaryExpectedPct).To(BeNil())

		Expect(rows[1].Percentile).To(Equal(50.0))
		Expect(rows[1].PrimaryExpectedPct).To(BeNil())
		Expect(rows[1].Gap).To(BeNil())
		Expect(*rows[1].SecondaryExpectedPct).To(Equal(70.0))
	})
})

var _ = Describe("JSON", func() {
	It("encodes absent criteria as null", func() {
		buf := &bytes.Buffer{}
		Expect(export.JSON(buf, export.FromStandings(standings()))).To(Succeed())

		doc := buf.String()
		Expect(gjson.Get(doc, "#").Int()).To(Equal(int64(2)))
		Expect(gjson.Get(doc, "0.name").String()).To(Equal("Hill Primary"))
		Expect(gjson.Get(doc, "1.rank").Int()).To(Equal(int64(2)))
		Expect(gjson.Get(doc, "1.gap").Type).To(Equal(gjson.Null))
		Expect(gjson.Get(doc, "1.secondary_expected_pct").Float()).To(Equal(70.0))
	})

	It("encodes no rows as an empty array", func() {
		buf := &bytes.Buffer{}
		Expect(export.JSON(buf, nil)).To(Succeed())
		Expect(buf.String()).To(Equal("[]\n"))
	})
})
