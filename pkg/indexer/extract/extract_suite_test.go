// SPDX-FileCopyrightText: 2026 Quilt Data contributors
//
// SPDX-License-Identifier: Apache-2.0

package extract_test

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"

	"github.com/keshava/quilt/pkg/indexer/extract"
	"github.com/keshava/quilt/pkg/util/s3"
	mock_s3 "github.com/keshava/quilt/pkg/util/s3/mocks"
)

func TestExtract(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Content Extraction Suite")
}

var _ = Describe("TrimToBytes", func() {

	It("should return input below the limit unchanged", func() {
		Expect(extract.TrimToBytes("hello", 10)).To(Equal("hello"))
		Expect(extract.TrimToBytes("", 10)).To(BeEmpty())
	})

	It("should cut ascii text exactly at the limit", func() {
		trimmed := extract.TrimToBytes(strings.Repeat("a", 100), 42)
		Expect(trimmed).To(HaveLen(42))
	})

	It("should never split a multi-byte rune", func() {
		// "é" encodes to 2 bytes, so an odd limit lands mid-rune
		text := strings.Repeat("é", 50)
		trimmed := extract.TrimToBytes(text, 21)

		Expect(trimmed).To(HaveLen(20))
		Expect(utf8.ValidString(trimmed)).To(BeTrue())
	})

	It("should stay valid for 4-byte runes", func() {
		text := strings.Repeat("𐍈", 10)
		for limit := 1; limit < 8; limit++ {
			Expect(utf8.ValidString(extract.TrimToBytes(text, limit))).To(BeTrue())
		}
	})
})

var _ = Describe("NotebookCells", func() {

	It("should join code and markdown cell sources", func() {
		data := []byte(`{
			"cells": [
				{"cell_type": "markdown", "source": "# Heading\n"},
				{"cell_type": "code", "source": ["print(", "1)"], "outputs": [{"text": "1"}]},
				{"cell_type": "raw", "source": "skipped"},
				{"cell_type": "code"}
			],
			"nbformat": 4
		}`)

		text, err := extract.NotebookCells(data)
		Expect(err).ToNot(HaveOccurred())
		Expect(text).To(Equal("# Heading\n\nprint(1)"))
	})

	It("should fail on malformed json", func() {
		_, err := extract.NotebookCells([]byte(`{"cells": [`))
		Expect(err).To(HaveOccurred())
	})

	It("should fail on binary input", func() {
		_, err := extract.NotebookCells([]byte{0xff, 0xfe, 0xfd})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Extractor", func() {

	var (
		ctx   context.Context
		store *mock_s3.Client
		ref   s3.ObjectRef
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = &mock_s3.Client{}
		ref = s3.ObjectRef{Bucket: "bucket", Key: "data/file", Size: 100}
	})

	newExtractor := func(sizeLimit int) *extract.Extractor {
		return extract.New(logr.Discard(), store, sizeLimit)
	}

	It("should not fetch objects whose extension is not content indexed", func() {
		text, err := newExtractor(100).Extract(ctx, ref, ".parquet")

		Expect(err).ToNot(HaveOccurred())
		Expect(text).To(BeEmpty())
		Expect(store.FetchCalls).To(BeZero())
	})

	It("should return plain text bounded by the size limit", func() {
		store.Content = []byte(strings.Repeat("a", 50))

		text, err := newExtractor(20).Extract(ctx, ref, ".txt")

		Expect(err).ToNot(HaveOccurred())
		Expect(text).To(HaveLen(20))
		Expect(store.FetchCalls).To(Equal(1))
	})

	It("should surface fetch failures to the caller", func() {
		store.FetchErr = errors.New("object unavailable")

		text, err := newExtractor(100).Extract(ctx, ref, ".csv")

		Expect(err).To(HaveOccurred())
		Expect(text).To(BeEmpty())
	})

	It("should yield empty text for a malformed notebook", func() {
		store.Content = []byte(`{"cells": [`)

		text, err := newExtractor(100).Extract(ctx, ref, ".ipynb")

		Expect(err).ToNot(HaveOccurred())
		Expect(text).To(BeEmpty())
	})

	It("should extract the cells of a well-formed notebook", func() {
		store.Content = []byte(`{"cells": [{"cell_type": "code", "source": "x = 1"}]}`)

		text, err := newExtractor(100).Extract(ctx, ref, ".ipynb")

		Expect(err).ToNot(HaveOccurred())
		Expect(text).To(Equal("x = 1"))
	})

	It("should yield empty text for content that is not valid utf-8", func() {
		store.Content = []byte{0xff, 0xfe, 0x00, 0x01}

		text, err := newExtractor(100).Extract(ctx, ref, ".txt")

		Expect(err).ToNot(HaveOccurred())
		Expect(text).To(BeEmpty())
	})
})
