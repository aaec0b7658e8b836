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
package normalize_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/schoolchecker/schoolrank/normalize"
)

var _ = Describe("Tokens", func() {
	DescribeTable("recognizes values that were not reported",
		func(tok string, expected bool) {
			Expect(normalize.IsNullToken(tok)).To(Equal(expected))
		},
		Entry("suppressed", "SUPP", true),
		Entry("suppressed lower case", "supp", true),
		Entry("not eligible", "NE", true),
		Entry("not applicable", "N/A", true),
		Entry("not applicable mixed case", "n/A", true),
		Entry("empty", "", true),
		Entry("whitespace", "   ", true),
		Entry("zero", "0", false),
		Entry("number", "85", false),
		Entry("other marker", "LOWCOV", false),
	)

	DescribeTable("parses percentages",
		func(tok string, expected float64) {
			val, err := normalize.ParsePercent(tok)
			Expect(err).NotTo(HaveOccurred())
			Expect(val).NotTo(BeNil())
			Expect(*val).To(Equal(expected))
		},
		Entry("integer", "85", 85.0),
		Entry("decimal", "62.5", 62.5),
		Entry("percent sign", "71%", 71.0),
		Entry("surrounding space", " 40 ", 40.0),
		Entry("zero", "0", 0.0),
		Entry("above range passes through", "104", 104.0),
		Entry("negative passes through", "-3", -3.0),
	)

	It("returns absent for null-like tokens", func() {
		for _, tok := range []string{"SUPP", "NE", "N/A", ""} {
			val, err := normalize.ParsePercent(tok)
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(BeNil())
		}
	})

	DescribeTable("reports malformed tokens",
		func(tok string) {
			val, err := normalize.ParsePercent(tok)
			Expect(val).To(BeNil())
			Expect(errors.Is(err, normalize.ErrMalformedToken)).To(BeTrue())

			var malformed *normalize.MalformedTokenError
			Expect(errors.As(err, &malformed)).To(BeTrue())
			Expect(malformed.Token).To(Equal(tok))
		},
		Entry("text", "LOWCOV"),
		Entry("two numbers", "12 13"),
		Entry("not a number", "NaN"),
		Entry("infinite", "Inf"),
		Entry("percent only", "%"),
	)
})
