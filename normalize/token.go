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
package normalize

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrMalformedToken       = errors.New("malformed token")
	ErrNotInstitution       = errors.New("row is not an institution record")
	ErrMissingInstitutionID = errors.New("institution identifier is blank")
	ErrMissingColumn        = errors.New("extract is missing a configured column")
	ErrNoSchema             = errors.New("no schema configured for year")
	ErrInvalidYear          = errors.New("invalid academic year")
)

// MalformedTokenError is returned for a field token that is neither a number nor
// a recognized "not reported" marker. The field is treated as absent.
type MalformedTokenError struct {
	Field string
	Token string
}

func (e *MalformedTokenError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %q", ErrMalformedToken, e.Token)
	}
	return fmt.Sprintf("%s: %q in %s", ErrMalformedToken, e.Token, e.Field)
}

func (e *MalformedTokenError) Unwrap() error {
	return ErrMalformedToken
}

// markers used by the publisher for suppressed, not eligible or missing values
var nullTokens = map[string]struct{}{
	"":     {},
	"supp": {},
	"ne":   {},
	"n/a":  {},
}

// IsNullToken reports whether tok means "value not reported"
func IsNullToken(tok string) bool {
	_, ok := nullTokens[strings.ToLower(strings.TrimSpace(tok))]
	return ok
}

// ParsePercent converts a percentage token. Null-like tokens return (nil, nil).
// Values are passed through as published: they are neither clamped to [0,100]
// nor rounded.
func ParsePercent(tok string) (*float64, error) {
	if IsNullToken(tok) {
		return nil, nil
	}

	cleaned := strings.TrimSpace(tok)
	cleaned = strings.TrimSpace(strings.TrimSuffix(cleaned, "%"))

	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
		return nil, &MalformedTokenError{Token: tok}
	}

	return &val, nil
}
