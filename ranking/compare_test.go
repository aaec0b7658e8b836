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
package ranking_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/schoolchecker/schoolrank/data"
	"github.com/schoolchecker/schoolrank/ranking"
)

var _ = Describe("Compare", func() {
	It("ranks on primary expected attainment before anything else", func() {
		x := school("X", 85, 5, 10, 0)
		y := school("Y", 78, 60, 100, 100)

		Expect(ranking.Compare(x, y)).To(BeNumerically("<", 0))
		Expect(ranking.Compare(y, x)).To(BeNumerically(">", 0))
	})

	It("walks the full tie-break chain down to secondary higher attainment", func() {
		lower := school("A", 75, 25, 78, 35)
		higher := school("B", 75, 25, 78, 40)

		Expect(ranking.Compare(higher, lower)).To(BeNumerically("<", 0))
		Expect(ranking.Tied(higher, lower)).To(BeFalse())
	})

	It("puts every fallback record below every primary-ranked record", func() {
		fallback := school("F", -1, 90, 66, 50)
		weakest := school("W", 0, 0, 0, 0)

		Expect(ranking.Compare(weakest, fallback)).To(BeNumerically("<", 0))
		Expect(ranking.Compare(fallback, weakest)).To(BeNumerically(">", 0))
	})

	DescribeTable("orders primary-ranked records",
		func(a, b *data.InstitutionYearRecord, expected int) {
			Expect(ranking.Compare(a, b)).To(Equal(expected))
			Expect(ranking.Compare(b, a)).To(Equal(-expected))
		},
		Entry("higher attainment wins", school("a", 60, 30, 0, 0), school("b", 60, 20, 0, 0), -1),
		Entry("absent higher counts as zero", school("a", 60, 0, 0, 0), school("b", 60, -1, 0, 0), 0),
		Entry("secondary expected breaks the tie", school("a", 60, 20, 70, 0), school("b", 60, 20, 69, 0), -1),
		Entry("absent secondary counts as zero", school("a", 60, 20, -1, 5), school("b", 60, 20, 0, 5), 0),
		Entry("secondary higher breaks the tie", school("a", 60, 20, 70, 10), school("b", 60, 20, 70, 11), 1),
		Entry("identical criteria tie", school("a", 60, 20, 70, 10), school("b", 60, 20, 70, 10), 0),
	)

	DescribeTable("orders fallback records",
		func(a, b *data.InstitutionYearRecord, expected int) {
			Expect(ranking.Compare(a, b)).To(Equal(expected))
		},
		Entry("secondary expected first", school("a", -1, -1, 70, 0), school("b", -1, -1, 60, 50), -1),
		Entry("then secondary higher", school("a", -1, -1, 70, 10), school("b", -1, -1, 70, 20), 1),
		Entry("primary higher is ignored", school("a", -1, 90, 70, 10), school("b", -1, -1, 70, 10), 0),
		Entry("all absent ties with zeroes", school("a", -1, -1, -1, -1), school("b", -1, -1, 0, 0), 0),
	)

	It("never changes the records it compares", func() {
		a := school("a", 60, -1, -1, 5)
		b := school("b", 60, 10, 20, -1)
		ranking.Compare(a, b)

		Expect(a.PrimaryHigherPct).To(BeNil())
		Expect(a.SecondaryExpectedPct).To(BeNil())
		Expect(b.SecondaryHigherPct).To(BeNil())
	})
})
