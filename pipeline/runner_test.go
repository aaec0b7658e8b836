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
package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/schoolchecker/schoolrank/data"
	"github.com/schoolchecker/schoolrank/pipeline"
)

var errUnavailable = errors.New("database unavailable")

// memorySink keeps the last rows written for each year and can be told to fail
// a number of writes before succeeding
type memorySink struct {
	mu       sync.Mutex
	years    map[int][]data.RankingRow
	failures map[int]int
	attempts map[int]int
}

func newMemorySink() *memorySink {
	return &memorySink{
		years:    make(map[int][]data.RankingRow),
		failures: make(map[int]int),
		attempts: make(map[int]int),
	}
}

func (sink *memorySink) ReplaceRankings(ctx context.Context, year int, rows []data.RankingRow) error {
	sink.mu.Lock()
	defer sink.mu.Unlock()

	sink.attempts[year]++
	if sink.failures[year] != 0 {
		if sink.failures[year] > 0 {
			sink.failures[year]--
		}
		return errUnavailable
	}

	sink.years[year] = append([]data.RankingRow(nil), rows...)
	return nil
}

func record(year int, id string, exp float64) *data.InstitutionYearRecord {
	return &data.InstitutionYearRecord{
		InstitutionID:      id,
		AcademicYear:       year,
		PrimaryExpectedPct: data.Float(exp),
		PrimaryHigherPct:   data.Float(exp / 4),
	}
}

func yearPopulation(year, size int) []*data.InstitutionYearRecord {
	records := make([]*data.InstitutionYearRecord, 0, size+1)
	for idx := 0; idx < size; idx++ {
		records = append(records, record(year, fmt.Sprintf("%d-%03d", year, idx), float64(idx%7)*10))
	}
	records = append(records, &data.InstitutionYearRecord{
		InstitutionID:        fmt.Sprintf("%d-fallback", year),
		AcademicYear:         year,
		SecondaryExpectedPct: data.Float(99),
	})
	return records
}

var _ = Describe("RankYear", func() {
	It("ranks and derives percentiles over the full population", func() {
		rows, err := pipeline.RankYear([]*data.InstitutionYearRecord{
			record(2024, "A", 80),
			record(2024, "B", 90),
			record(2024, "C", 80),
			{InstitutionID: "D", AcademicYear: 2024},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(4))

		Expect(rows[0].InstitutionID).To(Equal("B"))
		Expect(rows[0].Rank).To(Equal(1))
		Expect(rows[0].Percentile).To(Equal(100.0))

		Expect(rows[1].Rank).To(Equal(2))
		Expect(rows[2].Rank).To(Equal(2))
		Expect(rows[1].Percentile).To(Equal(75.0))
		Expect(rows[2].Percentile).To(Equal(rows[1].Percentile))

		Expect(rows[3].InstitutionID).To(Equal("D"))
		Expect(rows[3].Rank).To(Equal(4))
		Expect(rows[3].Percentile).To(Equal(25.0))
		Expect(rows[3].PrimaryExpectedPct).To(BeNil())
		Expect(rows[3].Gap).To(BeNil())

		for _, row := range rows {
			Expect(row.TotalInstitutions).To(Equal(4))
		}
	})

	It("returns nothing for an empty year", func() {
		rows, err := pipeline.RankYear(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(BeEmpty())
	})

	It("is idempotent", func() {
		records := yearPopulation(2023, 50)
		first, err := pipeline.RankYear(records)
		Expect(err).NotTo(HaveOccurred())
		second, err := pipeline.RankYear(records)
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(Equal(first))
	})
})

var _ = Describe("Runner", func() {
	var (
		ctx         context.Context
		sink        *memorySink
		populations pipeline.Populations
	)

	BeforeEach(func() {
		ctx = context.Background()
		sink = newMemorySink()
		populations = pipeline.Populations{
			2022: yearPopulation(2022, 20),
			2023: yearPopulation(2023, 30),
			2024: yearPopulation(2024, 40),
		}
	})

	It("ranks every year and stores each year's rows", func() {
		runner := pipeline.NewRunner(populations, sink, pipeline.Config{Workers: 3})
		defer runner.Close()

		results, err := runner.Run(ctx, []int{2022, 2023, 2024})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))

		for idx, year := range []int{2022, 2023, 2024} {
			Expect(results[idx].Year).To(Equal(year))
			Expect(results[idx].Err).NotTo(HaveOccurred())
			Expect(results[idx].Summary.Status).To(Equal(data.RunSuccess))
			Expect(results[idx].Summary.NumRanked).To(Equal(len(populations[year])))
			Expect(sink.years[year]).To(Equal(results[idx].Rows))
			for _, row := range sink.years[year] {
				Expect(row.AcademicYear).To(Equal(year))
				Expect(row.TotalInstitutions).To(Equal(len(populations[year])))
			}
		}
	})

	It("produces identical rows when run twice", func() {
		runner := pipeline.NewRunner(populations, sink, pipeline.Config{Workers: 2})
		defer runner.Close()

		_, err := runner.Run(ctx, []int{2023})
		Expect(err).NotTo(HaveOccurred())
		first := sink.years[2023]

		_, err = runner.Run(ctx, []int{2023})
		Expect(err).NotTo(HaveOccurred())
		Expect(sink.years[2023]).To(Equal(first))
	})

	It("does not let a failing year stop the others", func() {
		sink.failures[2023] = -1

		runner := pipeline.NewRunner(populations, sink, pipeline.Config{Workers: 3})
		defer runner.Close()

		results, err := runner.Run(ctx, []int{2022, 2023, 2024, 2019})
		Expect(err).To(MatchError(errUnavailable))
		Expect(err).To(MatchError(pipeline.ErrNoPopulation))

		Expect(results[0].Err).NotTo(HaveOccurred())
		Expect(results[1].Err).To(MatchError(errUnavailable))
		Expect(results[1].Summary.Status).To(Equal(data.RunFailed))
		Expect(results[2].Err).NotTo(HaveOccurred())
		Expect(results[3].Err).To(MatchError(pipeline.ErrNoPopulation))

		Expect(sink.years).To(HaveKey(2022))
		Expect(sink.years).To(HaveKey(2024))
		Expect(sink.years).NotTo(HaveKey(2023))
	})

	It("retries a failed write", func() {
		sink.failures[2022] = 2

		runner := pipeline.NewRunner(populations, sink, pipeline.Config{
			Workers:         1,
			RetryMaxElapsed: 5 * time.Second,
		})
		defer runner.Close()

		results, err := runner.Run(ctx, []int{2022})
		Expect(err).NotTo(HaveOccurred())
		Expect(results[0].Err).NotTo(HaveOccurred())
		Expect(sink.attempts[2022]).To(Equal(3))
		Expect(sink.years[2022]).To(HaveLen(len(populations[2022])))
	})

	It("returns a result for every year when the context is cancelled", func() {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		runner := pipeline.NewRunner(populations, sink, pipeline.Config{Workers: 2})
		defer runner.Close()

		results, err := runner.Run(cancelled, []int{2023, 2024})
		Expect(err).To(MatchError(context.Canceled))
		Expect(results).To(HaveLen(2))

		for idx, year := range []int{2023, 2024} {
			result := results[idx]
			Expect(result).NotTo(BeNil())
			Expect(result.Year).To(Equal(year))
			Expect(result.Summary).NotTo(BeNil())
			if result.Err != nil {
				Expect(result.Summary.Status).To(Equal(data.RunFailed))
			} else {
				Expect(result.Summary.Status).To(Equal(data.RunSuccess))
			}
		}
	})

	It("computes rankings without a sink", func() {
		runner := pipeline.NewRunner(populations, nil, pipeline.Config{})
		defer runner.Close()

		results, err := runner.Run(ctx, []int{2024})
		Expect(err).NotTo(HaveOccurred())
		Expect(results[0].Rows).To(HaveLen(len(populations[2024])))
		Expect(results[0].Rows[len(results[0].Rows)-1].InstitutionID).To(Equal("2024-fallback"))
	})
})
