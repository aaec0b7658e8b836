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
	"time"

	"github.com/hako/durafmt"
	"github.com/rs/zerolog/log"
	"github.com/schoolchecker/schoolrank/healthcheck"
	"github.com/schoolchecker/schoolrank/library"
	"github.com/schoolchecker/schoolrank/pipeline"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [extract-id...]",
	Short: "Import registered extracts and re-rank their years",
	Long: `The run sub-command imports each registered extract and then ranks
every academic year that was imported. If no arguments are provided every
active extract is run. Extracts with a health check ping it on success and
signal a failure otherwise.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := commandContext()

		myLibrary := openLibrary(ctx)
		defer myLibrary.Close()

		var extracts []*library.Extract
		if len(args) == 0 {
			all, err := myLibrary.Extracts(ctx)
			if err != nil {
				log.Fatal().Err(err).Msg("could not list extracts")
			}
			for _, extract := range all {
				if extract.Active {
					extracts = append(extracts, extract)
				}
			}
		} else {
			for _, extractID := range args {
				extract, err := myLibrary.ExtractFromID(ctx, extractID)
				if err != nil {
					log.Fatal().Err(err).Str("ExtractID", extractID).Msg("could not load extract")
				}
				extracts = append(extracts, extract)
			}
		}

		if len(extracts) == 0 {
			log.Info().Msg("no active extracts")
			return
		}

		allSchemas := schemas()
		imported := make([]*library.Extract, 0, len(extracts))
		seen := make(map[int]bool, len(extracts))
		years := make([]int, 0, len(extracts))
		failed := 0

		for _, extract := range extracts {
			runLogger := log.With().Str("ExtractID", extract.ShortID()).Int("Year", extract.AcademicYear).Logger()
			startTime := time.Now()

			schema, err := allSchemas.Lookup(extract.AcademicYear)
			if err != nil {
				runLogger.Error().Err(err).Msg("extract is mis-configured")
				signalFailure(extract, err)
				failed++
				continue
			}

			summary, err := pipeline.Import(runLogger.WithContext(ctx), newFetcher(extract.Member), myLibrary, schema, extract.Source)
			summary.ExtractID = &extract.ID
			saveRun(ctx, myLibrary, summary)
			if err != nil {
				signalFailure(extract, err)
				failed++
				continue
			}

			if err := extract.MarkRun(ctx, summary.NumRows-summary.NumRejected); err != nil {
				runLogger.Error().Err(err).Msg("could not update extract")
			}

			runLogger.Info().Str("RunTime", durafmt.Parse(time.Since(startTime)).String()).Int("NumRows", summary.NumRows).Msg("imported extract")

			imported = append(imported, extract)
			if !seen[extract.AcademicYear] {
				seen[extract.AcademicYear] = true
				years = append(years, extract.AcademicYear)
			}
		}

		if len(years) > 0 {
			if err := rankYears(ctx, myLibrary, years); err != nil {
				log.Error().Err(err).Msg("ranking failed")
				for _, extract := range imported {
					signalFailure(extract, err)
				}
				log.Fatal().Int("NumFailed", failed).Msg("run failed")
			}
		}

		for _, extract := range imported {
			if extract.HealthCheckID == "" {
				continue
			}
			if err := healthcheck.Ping(extract.HealthCheckID); err != nil {
				log.Warn().Err(err).Str("ExtractID", extract.ShortID()).Msg("could not ping health check")
			}
		}

		if failed > 0 {
			log.Fatal().Int("NumFailed", failed).Msg("some extracts failed")
		}
	},
}

func signalFailure(extract *library.Extract, cause error) {
	if extract.HealthCheckID == "" {
		return
	}

	if err := healthcheck.Fail(extract.HealthCheckID, cause.Error()); err != nil {
		log.Warn().Err(err).Str("ExtractID", extract.ShortID()).Msg("could not signal health check failure")
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
}
