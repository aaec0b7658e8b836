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
	"github.com/alphadose/haxmap"
	"github.com/schoolchecker/schoolrank/data"
)

var (
	directory *InstitutionDirectory
)

func init() {
	directory = &InstitutionDirectory{names: haxmap.New[string, string]()}
}

// InstitutionDirectory maps institution ids to display names
type InstitutionDirectory struct {
	names *haxmap.Map[string, string]
}

// Directory returns the process wide institution directory
func Directory() *InstitutionDirectory {
	return directory
}

// Load adds the names of records to the directory; blank names are ignored
func (dir *InstitutionDirectory) Load(records ...*data.InstitutionYearRecord) {
	for _, record := range records {
		if record.Name != "" {
			dir.names.Set(record.InstitutionID, record.Name)
		}
	}
}

// Set records the name of an institution
func (dir *InstitutionDirectory) Set(id, name string) {
	dir.names.Set(id, name)
}

// Name returns the display name of an institution or its id when unknown
func (dir *InstitutionDirectory) Name(id string) string {
	if name, ok := dir.names.Get(id); ok {
		return name
	}
	return id
}

func (dir *InstitutionDirectory) Len() uintptr {
	return dir.names.Len()
}
