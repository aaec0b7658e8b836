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
	"errors"
	"fmt"
	"os/user"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/jackc/pgx/v5"
	"github.com/schoolchecker/schoolrank/healthcheck"
)

var ErrExtractNotFound = errors.New("extract not found")

// Extract is a registered yearly attainment extract. Running it imports the
// source into the library and re-ranks its academic year.
type Extract struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	AcademicYear int       `db:"academic_year"`
	Source       string    `db:"source"`
	Member       string    `db:"member"`

	NumRecordsLastImport int `db:"num_records_last_import"`

	Schedule      string    `db:"schedule"`
	HealthCheckID string    `db:"health_check_id"`
	LastRun       time.Time `db:"last_run"`
	Active        bool      `db:"active"`

	CreatedOn time.Time `db:"created_on"`
	CreatedBy string    `db:"created_by"`

	Library *Library `db:"-"`
}

// NewExtract returns an unsaved extract for year read from source
func NewExtract(year int, source string, myLibrary *Library) *Extract {
	return &Extract{
		ID:           uuid.New(),
		Name:         slug.Make(fmt.Sprintf("ks2 %d", year)),
		AcademicYear: year,
		Source:       source,
		Schedule:     "0 6 * * 1",
		Active:       true,
		Library:      myLibrary,
	}
}

// ShortID is the prefix used to refer to the extract on the command line
func (extract *Extract) ShortID() string {
	return extract.ID.String()[:6]
}

// Save the extract to the database
func (extract *Extract) Save(ctx context.Context) error {
	// make sure current user is set on extract
	if user, err := user.Current(); err != nil {
		return err
	} else {
		extract.CreatedBy = user.Username
	}

	return extract.Library.withTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO extracts
("id", "name", "academic_year", "source", "member", "schedule", "health_check_id", "active", "created_by")
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`, extract.ID, extract.Name, extract.AcademicYear,
			extract.Source, extract.Member, extract.Schedule, extract.HealthCheckID, extract.Active,
			extract.CreatedBy)
		return err
	})
}

// Delete the extract registration. Imported records and rankings are kept.
func (extract *Extract) Delete(ctx context.Context) error {
	err := extract.Library.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "UPDATE runs SET extract_id=NULL WHERE extract_id=$1", extract.ID); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, "DELETE FROM extracts WHERE id=$1", extract.ID)
		return err
	})
	if err != nil {
		return err
	}

	// now that all database related modification has succeeded delete any corresponding health check
	if extract.HealthCheckID != "" {
		if err := healthcheck.Delete(extract.HealthCheckID); err != nil {
			return err
		}
	}

	return nil
}

// Activate the extract
func (extract *Extract) Activate(ctx context.Context) error {
	if err := extract.setActive(ctx, true); err != nil {
		return err
	}

	// now that all database related modification has succeeded resume any corresponding health check
	if extract.HealthCheckID != "" {
		if err := healthcheck.Resume(extract.HealthCheckID); err != nil {
			return err
		}
	}

	return nil
}

// Deactivate the extract; its data stays in the library but `run` skips it
func (extract *Extract) Deactivate(ctx context.Context) error {
	if err := extract.setActive(ctx, false); err != nil {
		return err
	}

	// now that all database related modification has succeeded pause any corresponding health check
	if extract.HealthCheckID != "" {
		if err := healthcheck.Pause(extract.HealthCheckID); err != nil {
			return err
		}
	}

	return nil
}

func (extract *Extract) setActive(ctx context.Context, active bool) error {
	return extract.Library.withTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, "UPDATE extracts SET active=$2 WHERE id=$1", extract.ID, active)
		if err == nil {
			extract.Active = active
		}
		return err
	})
}

// MarkRun stamps the extract with the time and size of its latest import
func (extract *Extract) MarkRun(ctx context.Context, numRecords int) error {
	now := time.Now()
	_, err := extract.Library.Pool.Exec(ctx, "UPDATE extracts SET last_run=$2, num_records_last_import=$3 WHERE id=$1",
		extract.ID, now, numRecords)
	if err == nil {
		extract.LastRun = now
		extract.NumRecordsLastImport = numRecords
	}
	return err
}

const extractSelect = `SELECT id, name, academic_year, source, member, num_records_last_import,
schedule, health_check_id, coalesce(last_run, '0001-01-01'::timestamptz) AS last_run, active,
created_on, created_by FROM extracts`

// Extracts returns every registered extract ordered by academic year
func (myLibrary *Library) Extracts(ctx context.Context) ([]*Extract, error) {
	var extracts []*Extract
	err := pgxscan.Select(ctx, myLibrary.Pool, &extracts, extractSelect+" ORDER BY academic_year, name")
	for _, extract := range extracts {
		extract.Library = myLibrary
	}
	return extracts, err
}

// ExtractFromID fetches the extract whose id starts with id
func (myLibrary *Library) ExtractFromID(ctx context.Context, id string) (*Extract, error) {
	extract := &Extract{}
	err := pgxscan.Get(ctx, myLibrary.Pool, extract, extractSelect+" WHERE id::text LIKE $1 || '%' ORDER BY id LIMIT 1", id)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrExtractNotFound, id)
		}
		return nil, err
	}

	extract.Library = myLibrary
	return extract, nil
}
