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
// Package extract retrieves yearly attainment extracts and splits them into
// header keyed token rows. It never interprets the tokens.
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/schoolchecker/schoolrank/pkginfo"
	"golang.org/x/time/rate"
)

var (
	ErrHTTPStatus     = errors.New("extract download returned an invalid HTTP response")
	ErrEmptyArchive   = errors.New("no files contained in extract archive")
	ErrMemberNotFound = errors.New("archive member not found")
	ErrEmptyExtract   = errors.New("extract contains no rows")
)

var zipMagic = []byte("PK\x03\x04")

type Config struct {
	// RateLimit is the maximum number of downloads per minute
	RateLimit int

	// Member selects the file read from a zip archive; when empty the first
	// .csv file is used
	Member string

	Timeout time.Duration
}

// Fetcher downloads or reads extracts. A fetcher is safe for concurrent use.
type Fetcher struct {
	client  *resty.Client
	limiter *rate.Limiter
	member  string
}

func NewFetcher(cfg Config) *Fetcher {
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 30
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}

	return &Fetcher{
		client:  resty.New().SetTimeout(cfg.Timeout).SetRetryCount(3).SetHeader("User-Agent", pkginfo.UserAgent()),
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RateLimit)/float64(61)), 1),
		member:  cfg.Member,
	}
}

// Fetch returns the CSV payload named by source. http(s) sources are
// downloaded, anything else is read from disk. Zip archives are unpacked.
func (fetcher *Fetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	var (
		body []byte
		err  error
	)

	if isRemote(source) {
		body, err = fetcher.download(ctx, source)
	} else {
		body, err = os.ReadFile(source)
	}

	if err != nil {
		return nil, err
	}

	if bytes.HasPrefix(body, zipMagic) {
		return Unzip(body, fetcher.member)
	}

	return body, nil
}

// Rows fetches source and parses it into header keyed rows
func (fetcher *Fetcher) Rows(ctx context.Context, source string) ([]map[string]string, error) {
	payload, err := fetcher.Fetch(ctx, source)
	if err != nil {
		return nil, err
	}

	rows, err := Parse(payload)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}

	zerolog.Ctx(ctx).Debug().Str("Source", source).Int("NumRows", len(rows)).Msg("read extract")

	return rows, nil
}

func (fetcher *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	logger := zerolog.Ctx(ctx)

	if err := fetcher.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	logger.Info().Str("Url", url).Msg("downloading extract")

	resp, err := fetcher.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() >= 300 {
		logger.Error().Int("StatusCode", resp.StatusCode()).Str("Url", url).Msg("extract download failed")
		return nil, fmt.Errorf("%w: %d %s", ErrHTTPStatus, resp.StatusCode(), url)
	}

	return resp.Body(), nil
}

// Unzip returns the content of member, or of the first .csv file in the archive
// when member is empty
func Unzip(body []byte, member string) ([]byte, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, err
	}

	if len(zipReader.File) == 0 {
		return nil, ErrEmptyArchive
	}

	for _, zipFile := range zipReader.File {
		name := zipFile.Name
		if member != "" {
			if name == member || path.Base(name) == member {
				return readZipFile(zipFile)
			}
			continue
		}

		if strings.EqualFold(path.Ext(name), ".csv") {
			return readZipFile(zipFile)
		}
	}

	if member == "" {
		member = "*.csv"
	}

	return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, member)
}

func readZipFile(zf *zip.File) ([]byte, error) {
	f, err := zf.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func isRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
