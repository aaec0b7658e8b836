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
package data

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Institution is the directory entry shared by every year an institution appears in
type Institution struct {
	ID             string    `db:"id"`
	Name           string    `db:"name"`
	LocalAuthority string    `db:"local_authority"`
	LastUpdated    time.Time `db:"last_updated"`
}

// Institution extracts the directory fields from a year record
func (record *InstitutionYearRecord) Institution() *Institution {
	return &Institution{
		ID:             record.InstitutionID,
		Name:           record.Name,
		LocalAuthority: record.LocalAuthority,
		LastUpdated:    time.Now(),
	}
}

// QueueUpsert adds an insert-or-update of the directory entry to batch. Blank
// names and local authorities never overwrite known values.
func (institution *Institution) QueueUpsert(batch *pgx.Batch) {
	sql := fmt.Sprintf(`INSERT INTO %[1]s (
		"id",
		"name",
		"local_authority",
		"last_updated"
	) VALUES (
		$1, $2, $3, $4
	) ON CONFLICT ON CONSTRAINT %[1]s_pkey
	DO UPDATE SET
		name = COALESCE(NULLIF(EXCLUDED.name, ''), %[1]s.name),
		local_authority = COALESCE(NULLIF(EXCLUDED.local_authority, ''), %[1]s.local_authority),
		last_updated = EXCLUDED.last_updated;`, InstitutionTable)

	batch.Queue(sql, institution.ID, institution.Name, institution.LocalAuthority, institution.LastUpdated)
}
