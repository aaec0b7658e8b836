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
package extract_test

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/schoolchecker/schoolrank/extract"
)

const ks2CSV = "RECTYPE,URN,SCHNAME,LEA,PTRWM_EXP,PTRWM_HIGH\n" +
	"1,100001,Hill Primary,201,65%,SUPP\n" +
	"1,100002,Vale Primary,201,80%,12%\n" +
	"4,,Camden,202,61%,8%\n"

func zipped(files map[string]string) []byte {
	buf := &bytes.Buffer{}
	writer := zip.NewWriter(buf)
	for name, content := range files {
		w, err := writer.Create(name)
		Expect(err).NotTo(HaveOccurred())
		_, err = w.Write([]byte(content))
		Expect(err).NotTo(HaveOccurred())
	}
	Expect(writer.Close()).To(Succeed())
	return buf.Bytes()
}

var _ = Describe("Parse", func() {
	It("keys every row by the header", func() {
		rows, err := extract.Parse([]byte(ks2CSV))
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(3))
		Expect(rows[0]).To(HaveKeyWithValue("URN", "100001"))
		Expect(rows[0]).To(HaveKeyWithValue("PTRWM_EXP", "65%"))
		Expect(rows[0]).To(HaveKeyWithValue("PTRWM_HIGH", "SUPP"))
		Expect(rows[2]).To(HaveKeyWithValue("URN", ""))
	})

	It("ignores a byte order mark", func() {
		rows, err := extract.Parse(append([]byte("\xef\xbb\xbf"), ks2CSV...))
		Expect(err).NotTo(HaveOccurred())
		Expect(rows[0]).To(HaveKey("RECTYPE"))
	})

	It("rejects an empty payload", func() {
		_, err := extract.Parse([]byte("  \n"))
		Expect(err).To(MatchError(extract.ErrEmptyExtract))
	})
})

var _ = Describe("Unzip", func() {
	It("picks the first csv member", func() {
		archive := zipped(map[string]string{"readme.txt": "notes", "england_ks2final.csv": ks2CSV})
		payload, err := extract.Unzip(archive, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(string(payload)).To(Equal(ks2CSV))
	})

	It("picks a named member", func() {
		archive := zipped(map[string]string{"2024/england_ks2final.csv": ks2CSV, "2024/meta.csv": "a,b\n"})
		payload, err := extract.Unzip(archive, "england_ks2final.csv")
		Expect(err).NotTo(HaveOccurred())
		Expect(string(payload)).To(Equal(ks2CSV))
	})

	It("fails when the member is missing", func() {
		archive := zipped(map[string]string{"readme.txt": "notes"})
		_, err := extract.Unzip(archive, "")
		Expect(err).To(MatchError(extract.ErrMemberNotFound))
	})

	It("fails on an empty archive", func() {
		_, err := extract.Unzip(zipped(map[string]string{}), "")
		Expect(err).To(MatchError(extract.ErrEmptyArchive))
	})
})

var _ = Describe("Fetcher", func() {
	var (
		ctx     context.Context
		fetcher *extract.Fetcher
	)

	BeforeEach(func() {
		ctx = context.Background()
		fetcher = extract.NewFetcher(extract.Config{RateLimit: 6000})
	})

	It("reads a local csv file", func() {
		fn := filepath.Join(GinkgoT().TempDir(), "ks2.csv")
		Expect(os.WriteFile(fn, []byte(ks2CSV), 0o600)).To(Succeed())

		rows, err := fetcher.Rows(ctx, fn)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(3))
	})

	It("reads a local zip file", func() {
		fn := filepath.Join(GinkgoT().TempDir(), "ks2.zip")
		Expect(os.WriteFile(fn, zipped(map[string]string{"ks2.csv": ks2CSV}), 0o600)).To(Succeed())

		rows, err := fetcher.Rows(ctx, fn)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(3))
		Expect(rows[1]).To(HaveKeyWithValue("SCHNAME", "Vale Primary"))
	})

	It("downloads a remote extract", func() {
		var userAgent string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userAgent = r.Header.Get("User-Agent")
			_, _ = w.Write(zipped(map[string]string{"ks2.csv": ks2CSV}))
		}))
		defer server.Close()

		rows, err := fetcher.Rows(ctx, server.URL+"/ks2.zip")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(3))
		Expect(userAgent).To(HavePrefix("schoolrank/"))
	})

	It("returns an error for a failed download", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := fetcher.Fetch(ctx, server.URL+"/missing.csv")
		Expect(err).To(MatchError(extract.ErrHTTPStatus))
	})

	It("returns an error for a missing file", func() {
		_, err := fetcher.Fetch(ctx, filepath.Join(GinkgoT().TempDir(), "nope.csv"))
		Expect(err).To(MatchError(os.ErrNotExist))
	})
})
