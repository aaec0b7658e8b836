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
package cmd

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schoolchecker/schoolrank/data"
	"github.com/schoolchecker/schoolrank/library"
	"github.com/schoolchecker/schoolrank/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rankCmd represents the rank command
var rankCmd = &cobra.Command{
	Use:   "rank [year...]",
	Short: "Rank every school of the given academic years",
	Long: `Rank replaces the stored rankings of each academic year with a fresh
ranking of all the year's schools. Without arguments every imported year is
ranked. Years are ranked in parallel (rank.workers) and a failed year does not
stop the others.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := commandContext()

		myLibrary := openLibrary(ctx)
		defer myLibrary.Close()

		years := make([]int, 0, len(args))
		for _, arg := range args {
			year, err := strconv.Atoi(arg)
			if err != nil {
				log.Fatal().Err(err).Str("Year", arg).Msg("year must be a number")
			}
			years = append(years, year)
		}

		if len(years) == 0 {
			var err error
			years, err = myLibrary.Years(ctx)
			if err != nil {
				log.Fatal().Err(err).Msg("could not list imported years")
			}
		}

		if len(years) == 0 {
			log.Info().Msg("no imported years to rank")
			return
		}

		if err := rankYears(ctx, myLibrary, years); err != nil {
			log.Fatal().Err(err).Msg("ranking failed")
		}
	},
}

// rankYears ranks and stores years, records a run for each and logs the
// extremes of every ranked year
func rankYears(ctx context.Context, myLibrary *library.Library, years []int) error {
	if err := myLibrary.LoadDirectory(ctx); err != nil {
		log.Warn().Err(err).Msg("institution names unavailable")
	}

	runner := pipeline.NewRunner(myLibrary, myLibrary, pipeline.Config{
		Workers:         viper.GetInt("rank.workers"),
		RetryMaxElapsed: viper.GetDuration("rank.retry_max_elapsed"),
	})
	defer runner.Close()

	results, err := runner.Run(ctx, years)

	dir := library.Directory()
	for _, result := range results {
		saveRun(ctx, myLibrary, result.Summary)
		if result.Err == nil {
			pipeline.LogExtremes(ctx, result.Rows, viper.GetInt("rank.log_extremes"), dir.Name)
		}
	}

	for _, result := range results {
		log.Info().Object("Run", result.Summary).Msg("year summary")
	}

	return err
}

// saveRun records summary in the library; a failure to do so is logged only
func saveRun(ctx context.Context, myLibrary *library.Library, summary *data.RunSummary) {
	if summary == nil {
		return
	}

	if err := myLibrary.SaveRun(ctx, summary); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Object("Run", summary).Msg("could not record run")
	}
}

func init() {
	rootCmd.AddCommand(rankCmd)
}
