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
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/schoolchecker/schoolrank/backblaze"
	"github.com/schoolchecker/schoolrank/export"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var exportDir string

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <year>",
	Short: "Write the rankings of an academic year to a parquet file",
	Long: `Export writes every ranking row of <year> to rankings-<year>.parquet. When
backblaze credentials are configured the file is also uploaded to the
backblaze.bucket bucket under a directory named after the year.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := commandContext()

		year, err := strconv.Atoi(args[0])
		if err != nil {
			log.Fatal().Err(err).Str("Year", args[0]).Msg("year must be a number")
		}

		myLibrary := openLibrary(ctx)
		defer myLibrary.Close()

		standings, err := myLibrary.Rankings(ctx, year, 0)
		if err != nil {
			log.Fatal().Err(err).Int("Year", year).Msg("could not load rankings")
		}

		if len(standings) == 0 {
			log.Fatal().Int("Year", year).Msg("no rankings stored for year")
		}

		dir := exportDir
		if dir == "" {
			dir, err = os.MkdirTemp(os.TempDir(), "export-rankings")
			if err != nil {
				log.Fatal().Err(err).Msg("could not create tempdir")
			}
		}

		parquetFn := filepath.Join(dir, fmt.Sprintf("rankings-%d.parquet", year))
		log.Info().Str("FileName", parquetFn).Msg("writing rankings to parquet")
		if err := export.Parquet(export.FromStandings(standings), parquetFn); err != nil {
			log.Fatal().Err(err).Msg("failed writing parquet file")
		}

		if backblaze.Configured() {
			bucket := viper.GetString("backblaze.bucket")
			log.Info().Int("Year", year).Str("Bucket", bucket).Msg("uploading rankings")
			if err := backblaze.Upload(parquetFn, bucket, strconv.Itoa(year)); err != nil {
				log.Fatal().Err(err).Msg("failed uploading parquet file to Backblaze")
			}
		} else {
			log.Info().Msg("skipping upload to backblaze because backblaze credentials are missing")
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportDir, "dir", "o", "", "directory to write the parquet file to (default is a new temporary directory)")
}
