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
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/schoolchecker/schoolrank/data"
	"github.com/schoolchecker/schoolrank/export"
	"github.com/schoolchecker/schoolrank/library"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	showJSON  bool
	showLimit int
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <year> [institution-id...]",
	Short: "Show the ranking of an academic year or of specific schools",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := commandContext()

		year, err := strconv.Atoi(args[0])
		if err != nil {
			log.Fatal().Err(err).Str("Year", args[0]).Msg("year must be a number")
		}

		myLibrary := openLibrary(ctx)
		defer myLibrary.Close()

		var standings []*library.Standing
		if len(args) > 1 {
			standings, err = myLibrary.RankingFor(ctx, year, args[1:]...)
		} else {
			standings, err = myLibrary.Rankings(ctx, year, showLimit)
		}

		if err != nil {
			log.Fatal().Err(err).Int("Year", year).Msg("could not load rankings")
		}

		if showJSON {
			if err := export.JSON(os.Stdout, export.FromStandings(standings)); err != nil {
				log.Fatal().Err(err).Msg("could not encode rankings")
			}
			return
		}

		if len(standings) == 0 {
			fmt.Printf("No rankings stored for %d\n", year)
			return
		}

		printMarkdown(standingsMarkdown(year, standings))
	},
}

func standingsMarkdown(year int, standings []*library.Standing) string {
	p := message.NewPrinter(language.English)
	builder := strings.Builder{}

	builder.WriteString(p.Sprintf("# %d rankings (%d schools)\n\n", year, standings[0].TotalInstitutions))
	builder.WriteString("| Rank | Percentile | School | LA | RWM exp | RWM high | Gap | GPS exp | GPS high |\n")
	builder.WriteString("|---|---|---|---|---|---|---|---|---|\n")

	for _, standing := range standings {
		name := standing.Name
		if name == "" {
			name = standing.InstitutionID
		}

		builder.WriteString(p.Sprintf("| %d | %.2f | %s (%s) | %s | %s | %s | %s | %s | %s |\n",
			standing.Rank, standing.Percentile, name, standing.InstitutionID, standing.LocalAuthority,
			data.FormatPct(standing.PrimaryExpectedPct), data.FormatPct(standing.PrimaryHigherPct),
			data.FormatPct(standing.Gap), data.FormatPct(standing.SecondaryExpectedPct),
			data.FormatPct(standing.SecondaryHigherPct)))
	}

	return builder.String()
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "print rankings as JSON")
	showCmd.Flags().IntVarP(&showLimit, "limit", "n", 25, "number of ranks to show; 0 shows every school")
}
