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

	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var deleteExtract bool

// unregisterCmd represents the unregister command
var unregisterCmd = &cobra.Command{
	Use:   "unregister <extract-id>",
	Short: "Stop running the specified extract",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := commandContext()

		myLibrary := openLibrary(ctx)
		defer myLibrary.Close()

		action := "de-activate"
		if deleteExtract {
			action = "delete"
		}

		for _, id := range args {
			extract, err := myLibrary.ExtractFromID(ctx, id)
			if err != nil {
				log.Fatal().Err(err).Str("ID", id).Msg("could not get extract for ID")
			}

			confirmed := false
			confirmForm := huh.NewForm(
				huh.NewGroup(
					huh.NewConfirm().
						Title(fmt.Sprintf("Are you sure you want to %s '%s'?", action, extract.Name)).
						Value(&confirmed),
				),
			)

			err = confirmForm.Run()
			if err != nil {
				log.Fatal().Err(err).Msg("failed to create wizard")
			}

			if !confirmed {
				fmt.Printf("Ok, we won't %s '%s'\n", action, extract.Name)
				continue
			}

			fmt.Printf("%s '%s'...\n", action, extract.Name)
			if deleteExtract {
				if err := extract.Delete(ctx); err != nil {
					log.Fatal().Err(err).Msg("could not delete extract")
				}
			} else {
				if err := extract.Deactivate(ctx); err != nil {
					log.Fatal().Err(err).Msg("could not de-activate extract")
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(unregisterCmd)
	unregisterCmd.Flags().BoolVarP(&deleteExtract, "delete", "d", false, "delete the extract registration; imported records and rankings are kept")
}
