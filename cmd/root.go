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
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schoolchecker/schoolrank/library"
	"github.com/schoolchecker/schoolrank/normalize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "schoolrank",
	Short: "schoolrank imports school attainment extracts and ranks schools within each year",
	Long: `schoolrank is a command line utility for building and maintaining a
database of school-level attainment results and the rankings derived from
them.

Each academic year's published extract is imported into PostgreSQL, every
school of the year is ranked against all other schools of the same year and a
percentile is derived from the rank. Schools are ordered by:

	1. the percentage reaching the expected standard in reading, writing and maths
	2. the percentage reaching the higher standard in reading, writing and maths
	3. the gap between the two (a smaller gap ranks higher)
	4. the percentage reaching the expected standard in grammar, punctuation and spelling
	5. the percentage reaching the higher standard in grammar, punctuation and spelling

Schools without a reading, writing and maths result are ranked below every
school that has one.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := zerolog.ParseLevel(viper.GetString("log.level"))
		if err != nil {
			log.Warn().Err(err).Str("Level", viper.GetString("log.level")).Msg("invalid log level, using info")
			level = zerolog.InfoLevel
		}
		zerolog.SetGlobalLevel(level)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.schoolrank.toml)")

	rootCmd.PersistentFlags().String("db-url", "", "database connection string")
	if err := viper.BindPFlag("db.url", rootCmd.PersistentFlags().Lookup("db-url")); err != nil {
		log.Panic().Err(err).Msg("BindPFlag for db-url failed")
	}

	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	if err := viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		log.Panic().Err(err).Msg("BindPFlag for log-level failed")
	}

	viper.SetDefault("rank.workers", runtime.NumCPU())
	viper.SetDefault("rank.retry_max_elapsed", 2*time.Minute)
	viper.SetDefault("rank.log_extremes", 5)
	viper.SetDefault("extract.rate_limit", 30)
	viper.SetDefault("extract.timeout", 5*time.Minute)
	viper.SetDefault("backblaze.bucket", "schoolrank")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// local overrides first; godotenv never replaces variables that are already set
	for _, fn := range []string{".env.local", ".env"} {
		if err := godotenv.Load(fn); err == nil {
			log.Debug().Str("FileName", fn).Msg("loaded environment file")
		}
	}

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".schoolrank" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("toml")
		viper.SetConfigName(".schoolrank")
	}

	viper.SetEnvPrefix("schoolrank")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Info().Str("ConfigFN", viper.ConfigFileUsed()).Msg("Using config file")
	}
}

// commandContext returns a context carrying the global logger
func commandContext() context.Context {
	return log.Logger.WithContext(context.Background())
}

// openLibrary connects to the configured library or exits
func openLibrary(ctx context.Context) *library.Library {
	myLibrary, err := library.NewFromDB(ctx, viper.GetString("db.url"))
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to library")
	}
	return myLibrary
}

// schemas returns the built-in extract layouts with configured overrides applied
func schemas() normalize.Schemas {
	overrides := make(map[string]normalize.YearSchema)
	if err := viper.UnmarshalKey("schemas", &overrides); err != nil {
		log.Fatal().Err(err).Msg("could not read schema overrides")
	}

	merged, err := normalize.DefaultSchemas().WithOverrides(overrides)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid schema override")
	}

	return merged
}
