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
package db_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/schoolchecker/schoolrank/db"
)

var _ = DescribeTable("MigrateURL",
	func(in, expected string) {
		Expect(db.MigrateURL(in)).To(Equal(expected))
	},
	Entry("postgres scheme", "postgres://rank@localhost/schools", "pgx5://rank@localhost/schools"),
	Entry("postgresql scheme", "postgresql://rank@localhost:5433/schools?sslmode=disable", "pgx5://rank@localhost:5433/schools?sslmode=disable"),
	Entry("already pgx5", "pgx5://rank@localhost/schools", "pgx5://rank@localhost/schools"),
)
