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
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/schoolchecker/schoolrank/data"
)

var ErrNoPopulation = errors.New("no population loaded for year")

// Source supplies the population of an academic year
type Source interface {
	LoadRecords(ctx context.Context, year int) ([]*data.InstitutionYearRecord, error)
}

// Sink stores the ranking rows of an academic year. ReplaceRankings must replace
// the year's previous rows atomically: either every row is written or none are.
type Sink interface {
	ReplaceRankings(ctx context.Context, year int, rows []data.RankingRow) error
}

// Populations is an in-memory Source keyed by academic year
type Populations map[int][]*data.InstitutionYearRecord

func (populations Populations) LoadRecords(ctx context.Context, year int) ([]*data.InstitutionYearRecord, error) {
	records, ok := populations[year]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNoPopulation, year)
	}
	return records, nil
}

type Config struct {
	// Workers is the number of years ranked concurrently
	Workers int

	// RetryMaxElapsed bounds the time spent retrying a failed write; zero
	// disables retries
	RetryMaxElapsed time.Duration
}

// YearResult is the outcome of ranking one academic year
type YearResult struct {
	Year    int
	Rows    []data.RankingRow
	Summary *data.RunSummary
	Err     error
}

// Runner ranks academic years in parallel. Years share nothing but the sink.
type Runner struct {
	source Source
	sink   Sink
	cfg    Config
	pool   pond.ResultPool[*YearResult]
}

// NewRunner creates a runner; a nil sink computes rankings without storing them
func NewRunner(source Source, sink Sink, cfg Config) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	return &Runner{
		source: source,
		sink:   sink,
		cfg:    cfg,
		pool:   pond.NewResultPool[*YearResult](cfg.Workers),
	}
}

// Close waits for running years to finish and releases the workers
func (runner *Runner) Close() {
	runner.pool.StopAndWait()
}

// Run ranks every year in years. A failing year does not stop the others; the
// returned error joins the failures of all years. Results are in the order of
// years.
func (runner *Runner) Run(ctx context.Context, years []int) ([]*YearResult, error) {
	group := runner.pool.NewGroupContext(ctx)

	for _, year := range years {
		group.Submit(func() *YearResult {
			return runner.rankYear(ctx, year)
		})
	}

	results, err := group.Wait()
	if err != nil {
		return skipped(years, results, err), err
	}

	var errs []error
	for _, result := range results {
		if result.Err != nil {
			errs = append(errs, fmt.Errorf("year %d: %w", result.Year, result.Err))
		}
	}

	return results, errors.Join(errs...)
}

// skipped fills the slots of years that never ran, so callers always get one
// result per year
func skipped(years []int, results []*YearResult, err error) []*YearResult {
	filled := make([]*YearResult, len(years))
	for idx, year := range years {
		if idx < len(results) && results[idx] != nil {
			filled[idx] = results[idx]
			continue
		}

		summary := data.NewRunSummary(data.RunKindRank, year)
		summary.Finish(data.RunFailed)
		filled[idx] = &YearResult{
			Year:    year,
			Summary: summary,
			Err:     err,
		}
	}

	return filled
}

func (runner *Runner) rankYear(ctx context.Context, year int) *YearResult {
	logger := zerolog.Ctx(ctx).With().Int("Year", year).Logger()

	result := &YearResult{
		Year:    year,
		Summary: data.NewRunSummary(data.RunKindRank, year),
	}

	records, err := runner.source.LoadRecords(ctx, year)
	if err != nil {
		logger.Error().Err(err).Msg("could not load population")
		result.Err = err
		result.Summary.Finish(data.RunFailed)
		return result
	}

	result.Summary.NumRows = len(records)

	rows, err := RankYear(records)
	if err != nil {
		logger.Error().Err(err).Msg("ranking failed")
		result.Err = err
		result.Summary.Finish(data.RunFailed)
		return result
	}

	result.Rows = rows
	result.Summary.NumRanked = len(rows)

	if runner.sink != nil {
		if err := runner.write(ctx, year, rows); err != nil {
			logger.Error().Err(err).Msg("could not store rankings")
			result.Err = err
			result.Summary.Finish(data.RunFailed)
			return result
		}
	}

	result.Summary.Finish(data.RunSuccess)
	logger.Info().Int("NumRanked", len(rows)).Msg("ranked academic year")

	return result
}

// write stores a year's rows, retrying with exponential backoff. Each attempt
// replaces the whole year so a retry never mixes rows from two attempts.
func (runner *Runner) write(ctx context.Context, year int, rows []data.RankingRow) error {
	logger := zerolog.Ctx(ctx)

	op := func() error {
		return runner.sink.ReplaceRankings(ctx, year, rows)
	}

	if runner.cfg.RetryMaxElapsed <= 0 {
		return op()
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = runner.cfg.RetryMaxElapsed

	notify := func(err error, wait time.Duration) {
		logger.Warn().Err(err).Int("Year", year).Dur("Wait", wait).Msg("storing rankings failed, retrying")
	}

	return backoff.RetryNotify(op, backoff.WithContext(bo, ctx), notify)
}
