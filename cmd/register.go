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
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog/log"
	"github.com/schoolchecker/schoolrank/healthcheck"
	"github.com/schoolchecker/schoolrank/library"
	"github.com/spf13/cobra"
)

var errSourceRequired = errors.New("a source is required")

// registerCmd represents the register command
var registerCmd = &cobra.Command{
	Use:   "register <year> [source]",
	Short: "Register an extract for an academic year",
	Long: `Extracts are the primary mechanism schoolrank uses to import data. An
extract names where the published results of one academic year are found
(a file or an http(s) URL, optionally zipped) and how often 'schoolrank run'
should refresh them.

When registering an extract a couple of things happen:

    1. The source and schedule are saved in the library
    2. Optionally a healthchecks.io monitor is created for the schedule

Also see: run, unregister`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		var (
			confirmed bool
			monitored bool
		)

		ctx := commandContext()

		year, err := strconv.Atoi(args[0])
		if err != nil {
			log.Fatal().Err(err).Str("Year", args[0]).Msg("year must be a number")
		}

		if _, err := schemas().Lookup(year); err != nil {
			fmt.Printf("No extract layout is known for %d.\n", year)
			fmt.Printf("Run `schoolrank schemas` for the configured years")
			os.Exit(1)
		}

		myLibrary := openLibrary(ctx)
		defer myLibrary.Close()

		source := ""
		if len(args) > 1 {
			source = args[1]
		}

		extract := library.NewExtract(year, source, myLibrary)
		extract.Schedule = fmt.Sprintf("%d %d * * 1", rand.Intn(12)*5, rand.Intn(6)+2)

		// walk user through settings required for the extract
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("What should the extract be named?").
					Value(&extract.Name),
				huh.NewInput().
					Title("Where is the extract published (file or URL)?").
					Value(&extract.Source).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return errSourceRequired
						}
						return nil
					}),
				huh.NewInput().
					Title("Which file should be read from a zip archive (blank for the first .csv)?").
					Value(&extract.Member),
				huh.NewInput().
					Title("What schedule should the extract run on?").
					Value(&extract.Schedule),
				huh.NewConfirm().
					Title("Should a healthcheck.io monitor be created for the extract?").
					Value(&monitored),
			),
		)

		err = form.Run()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create wizard")
		}

		// Print extract summary
		{
			var sb strings.Builder
			keyword := func(s string) string {
				return lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Render(s)
			}

			isMonitored := "no"
			if monitored {
				isMonitored = "yes"
			}

			member := extract.Member
			if member == "" {
				member = "first .csv"
			}

			fmt.Fprintf(&sb,
				"%s\n\nID: %s\nName: %s\nYear: %s\nSource: %s\nMember: %s\nSchedule: %s\nMonitored: %s\n",
				lipgloss.NewStyle().Bold(true).Render("NEW EXTRACT"),
				keyword(extract.ID.String()),
				keyword(extract.Name),
				keyword(strconv.Itoa(extract.AcademicYear)),
				keyword(extract.Source),
				keyword(member),
				keyword(extract.Schedule),
				keyword(isMonitored),
			)

			fmt.Println(
				lipgloss.NewStyle().
					Width(60).
					BorderStyle(lipgloss.RoundedBorder()).
					BorderForeground(lipgloss.Color("63")).
					Padding(1, 2).
					Render(sb.String()),
			)
		}

		confirmForm := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Register extract?").
					Value(&confirmed),
			),
		)

		err = confirmForm.Run()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create wizard")
		}

		if !confirmed {
			log.Info().Msg("Not saving extract")
			return
		}

		if monitored {
			checkSlug := slug.Make(fmt.Sprintf("%s %s", extract.Name, extract.ShortID()))
			checkID, err := healthcheck.Create(
				fmt.Sprintf("%s (%s)", extract.Name, extract.ShortID()),
				checkSlug,
				[]string{"schoolrank", strconv.Itoa(extract.AcademicYear)},
				extract.Schedule,
			)
			if err != nil {
				log.Fatal().Err(err).Msg("creating healthcheck failed")
			}
			extract.HealthCheckID = checkID
		}

		if err := extract.Save(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed saving extract")
		}

		log.Info().Str("ExtractID", extract.ShortID()).Msg("extract registered")
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
}
