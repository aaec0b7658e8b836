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
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/schoolchecker/schoolrank/normalize"
	"github.com/spf13/cobra"
)

// schemasCmd represents the schemas command
var schemasCmd = &cobra.Command{
	Use:   "schemas [year]",
	Short: "List the extract layouts known for each academic year",
	Long: `Each academic year's extract is read with a layout naming the columns
that hold the school identifier and each ranking criterion. Built-in layouts
can be changed, and layouts for new years added, in the [schemas.<year>]
section of the config file.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		allSchemas := schemas()

		years := allSchemas.Years()
		if len(args) == 1 {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				log.Fatal().Err(err).Str("Year", args[0]).Msg("year must be a number")
			}
			if _, err := allSchemas.Lookup(year); err != nil {
				log.Fatal().Err(err).Msg("unknown year")
			}
			years = []int{year}
		}

		builder := strings.Builder{}
		builder.WriteString("# Extract layouts\n\n")

		for _, year := range years {
			schema, _ := allSchemas.Lookup(year)
			writeSchema(&builder, schema)
		}

		printMarkdown(builder.String())
	},
}

func writeSchema(builder *strings.Builder, schema normalize.YearSchema) {
	column := func(col string) string {
		if col == "" {
			return "-"
		}
		return "`" + col + "`"
	}

	fmt.Fprintf(builder, "## %d\n\n", schema.Year)
	builder.WriteString("| Field | Column |\n|---|---|\n")

	recordType := column(schema.RecordType)
	if schema.RecordType != "" {
		recordType = fmt.Sprintf("%s = %s", recordType, schema.InstitutionRecord)
	}

	fmt.Fprintf(builder, "| School rows | %s |\n", recordType)
	fmt.Fprintf(builder, "| Identifier | %s |\n", column(schema.InstitutionID))
	fmt.Fprintf(builder, "| Name | %s |\n", column(schema.Name))
	fmt.Fprintf(builder, "| Local authority | %s |\n", column(schema.LocalAuthority))
	fmt.Fprintf(builder, "| Expected standard (primary) | %s |\n", column(schema.PrimaryExpected))
	fmt.Fprintf(builder, "| Higher standard (primary) | %s |\n", column(schema.PrimaryHigher))
	fmt.Fprintf(builder, "| Expected standard (secondary) | %s |\n", column(schema.SecondaryExpected))
	fmt.Fprintf(builder, "| Higher standard (secondary) | %s |\n\n", column(schema.SecondaryHigher))
}

func init() {
	rootCmd.AddCommand(schemasCmd)
}
