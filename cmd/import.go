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
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/schoolchecker/schoolrank/extract"
	"github.com/schoolchecker/schoolrank/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	importMember string
	importRank   bool
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <year> <source>",
	Short: "Import an attainment extract for an academic year",
	Long: `Import reads the extract at <source> (a local file or an http(s) URL,
optionally zipped) and replaces every stored record of <year> with it. Rows
that are not school records are skipped and malformed values are logged and
treated as not reported.

Rankings are not updated unless --rank is given; run 'schoolrank rank <year>'
afterwards otherwise.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := commandContext()

		year, err := strconv.Atoi(args[0])
		if err != nil {
			log.Fatal().Err(err).Str("Year", args[0]).Msg("year must be a number")
		}

		schema, err := schemas().Lookup(year)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot import year")
		}

		myLibrary := openLibrary(ctx)
		defer myLibrary.Close()

		summary, err := pipeline.Import(ctx, newFetcher(importMember), myLibrary, schema, args[1])
		saveRun(ctx, myLibrary, summary)
		if err != nil {
			log.Fatal().Err(err).Msg("import failed")
		}

		if importRank {
			if err := rankYears(ctx, myLibrary, []int{year}); err != nil {
				log.Fatal().Err(err).Msg("ranking failed")
			}
		}
	},
}

func newFetcher(member string) *extract.Fetcher {
	return extract.NewFetcher(extract.Config{
		RateLimit: viper.GetInt("extract.rate_limit"),
		Member:    member,
		Timeout:   viper.GetDuration("extract.timeout"),
	})
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVar(&importMember, "member", "", "file to read from a zip archive (default is the first .csv file)")
	importCmd.Flags().BoolVar(&importRank, "rank", false, "rank the year after importing")
}
