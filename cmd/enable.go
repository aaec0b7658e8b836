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
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// enableCmd represents the enable command
var enableCmd = &cobra.Command{
	Use:   "enable <extract-id>",
	Short: "Enable inactive extracts",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := commandContext()

		myLibrary := openLibrary(ctx)
		defer myLibrary.Close()

		for _, id := range args {
			extract, err := myLibrary.ExtractFromID(ctx, id)
			if err != nil {
				log.Fatal().Err(err).Str("ID", id).Msg("could not get extract for ID")
			}

			if err := extract.Activate(ctx); err != nil {
				log.Fatal().Err(err).Msg("could not activate extract")
			}

			log.Info().Str("ID", id).Msg("extract enabled")
		}
	},
}

// disableCmd represents the disable command
var disableCmd = &cobra.Command{
	Use:   "disable <extract-id>",
	Short: "Disable extracts without removing them",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := commandContext()

		myLibrary := openLibrary(ctx)
		defer myLibrary.Close()

		for _, id := range args {
			extract, err := myLibrary.ExtractFromID(ctx, id)
			if err != nil {
				log.Fatal().Err(err).Str("ID", id).Msg("could not get extract for ID")
			}

			if err := extract.Deactivate(ctx); err != nil {
				log.Fatal().Err(err).Msg("could not de-activate extract")
			}

			log.Info().Str("ID", id).Msg("extract disabled")
		}
	},
}

func init() {
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
}
