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
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/schoolchecker/schoolrank/data"
	"github.com/schoolchecker/schoolrank/ranking"
)

func ids(ranked []ranking.Ranked) []string {
	out := make([]string, len(ranked))
	for idx, entry := range ranked {
		out[idx] = entry.Record.InstitutionID
	}
	return out
}

func ranks(ranked []ranking.Ranked) []int {
	out := make([]int, len(ranked))
	for idx, entry := range ranked {
		out[idx] = entry.Rank
	}
	return out
}

var _ = Describe("Rank", func() {
	It("returns an empty result for an empty population", func() {
		ranked, err := ranking.Rank(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(ranked).To(BeEmpty())
	})

	It("assigns dense tie ranks", func() {
		ranked, err := ranking.Rank([]*data.InstitutionYearRecord{
			school("e", 50, 10, 0, 0),
			school("b", 90, 40, 80, 30),
			school("d", 70, 20, 60, 20),
			school("c", 70, 20, 60, 20),
			school("a", 90, 40, 80, 30),
			school("f", -1, -1, 90, 50),
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(ids(ranked)).To(Equal([]string{"a", "b", "c", "d", "e", "f"}))
		Expect(ranks(ranked)).To(Equal([]int{1, 1, 3, 3, 5, 6}))
	})

	It("separates institutions that only differ after the primary pair", func() {
		// a walk that only looked at the primary pair would tie these
		ranked, err := ranking.Rank([]*data.InstitutionYearRecord{
			school("a", 75, 25, 78, 35),
			school("b", 75, 25, 78, 40),
			school("c", 75, 25, 80, 0),
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(ids(ranked)).To(Equal([]string{"c", "b", "a"}))
		Expect(ranks(ranked)).To(Equal([]int{1, 2, 3}))
	})

	It("ranks fallback records below every primary-ranked record", func() {
		ranked, err := ranking.Rank([]*data.InstitutionYearRecord{
			school("fallback", -1, -1, 66, 30),
			school("weak", 2, 0, 0, 0),
			school("strong", 95, 60, 95, 70),
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(ids(ranked)).To(Equal([]string{"strong", "weak", "fallback"}))
		Expect(ranks(ranked)).To(Equal([]int{1, 2, 3}))
	})

	It("ranks records with nothing reported at the bottom", func() {
		ranked, err := ranking.Rank([]*data.InstitutionYearRecord{
			school("empty", -1, -1, -1, -1),
			school("fallback", -1, -1, 10, 0),
			school("zero", -1, -1, 0, 0),
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(ids(ranked)).To(Equal([]string{"fallback", "empty", "zero"}))
		Expect(ranks(ranked)).To(Equal([]int{1, 2, 2}))
	})

	It("refuses populations from more than one year", func() {
		other := school("b", 10, 0, 0, 0)
		other.AcademicYear = 2023

		_, err := ranking.Rank([]*data.InstitutionYearRecord{school("a", 10, 0, 0, 0), other})
		Expect(err).To(MatchError(ranking.ErrMixedYears))
	})

	It("does not reorder the input", func() {
		records := []*data.InstitutionYearRecord{school("b", 10, 0, 0, 0), school("a", 90, 0, 0, 0)}
		_, err := ranking.Rank(records)
		Expect(err).NotTo(HaveOccurred())
		Expect(records[0].InstitutionID).To(Equal("b"))
	})

	Context("over generated populations", func() {
		var (
			records []*data.InstitutionYearRecord
			ranked  []ranking.Ranked
		)

		BeforeEach(func() {
			rnd := rand.New(rand.NewSource(GinkgoRandomSeed()))
			records = population(rnd, 500)

			var err error
			ranked, err = ranking.Rank(records)
			Expect(err).NotTo(HaveOccurred())
			Expect(ranked).To(HaveLen(len(records)))
		})

		It("starts at rank 1 and never decreases", func() {
			Expect(ranked[0].Rank).To(Equal(1))
			for idx := 1; idx < len(ranked); idx++ {
				Expect(ranked[idx].Rank).To(BeNumerically(">=", ranked[idx-1].Rank))
			}
		})

		It("shares a rank exactly when the criteria are equal", func() {
			for idx := 1; idx < len(ranked); idx++ {
				sameTuple := tuple(ranked[idx].Record) == tuple(ranked[idx-1].Record)
				sameRank := ranked[idx].Rank == ranked[idx-1].Rank
				Expect(sameRank).To(Equal(sameTuple), "positions %d and %d", idx-1, idx)

				if !sameRank {
					Expect(ranked[idx].Rank).To(Equal(idx + 1))
				}
			}
		})

		It("keeps every primary-ranked record above every fallback record", func() {
			worstPrimary := 0
			bestFallback := len(ranked) + 1
			for _, entry := range ranked {
				if entry.Record.IsPrimaryRanked() {
					worstPrimary = max(worstPrimary, entry.Rank)
				} else {
					bestFallback = min(bestFallback, entry.Rank)
				}
			}
			Expect(worstPrimary).To(BeNumerically("<", bestFallback))
		})

		It("gives identical criteria the identical rank", func() {
			rankByTuple := make(map[[6]float64]int)
			for _, entry := range ranked {
				key := tuple(entry.Record)
				if rank, ok := rankByTuple[key]; ok {
					Expect(entry.Rank).To(Equal(rank))
				} else {
					rankByTuple[key] = entry.Rank
				}
			}
		})

		It("produces the same ordering regardless of input order", func() {
			shuffled := make([]*data.InstitutionYearRecord, len(records))
			copy(shuffled, records)
			rand.New(rand.NewSource(7)).Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})

			again, err := ranking.Rank(shuffled)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(again)).To(Equal(ids(ranked)))
			Expect(ranks(again)).To(Equal(ranks(ranked)))
		})
	})
})
