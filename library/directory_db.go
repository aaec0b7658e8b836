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
package library

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/rs/zerolog"
	"github.com/schoolchecker/schoolrank/data"
)

// LoadDirectory fills the institution directory from the institutions table
func (myLibrary *Library) LoadDirectory(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	var institutions []*data.Institution
	if err := pgxscan.Select(ctx, myLibrary.Pool, &institutions, "SELECT id, name, local_authority, last_updated FROM institutions"); err != nil {
		logger.Error().Err(err).Msg("could not load institution directory")
		return err
	}

	dir := Directory()
	for _, institution := range institutions {
		if institution.Name != "" {
			dir.Set(institution.ID, institution.Name)
		}
	}

	logger.Debug().Int("NumInstitutions", len(institutions)).Msg("loaded institution directory")

	return nil
}
