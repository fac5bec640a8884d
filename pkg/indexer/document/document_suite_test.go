// SPDX-FileCopyrightText: 2026 Quilt Data contributors
//
// SPDX-License-Identifier: Apache-2.0

package document_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"

	"github.com/keshava/quilt/pkg/apis/config"
	"github.com/keshava/quilt/pkg/indexer/document"
	mock_document "github.com/keshava/quilt/pkg/indexer/document/mocks"
	"github.com/keshava/quilt/pkg/indexer/meta"
	"github.com/keshava/quilt/pkg/util/elasticsearch"
	"github.com/keshava/quilt/pkg/util/elasticsearch/bulk"
)

func TestDocument(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Document Queue Suite")
}

func newDoc(id string, size int64, text string) *document.Document {
	return &document.Document{
		ID:    id,
		Index: "bucket",
		Op:    bulk.OpIndex,
		Key:   id,
		Size:  size,
		Text:  text,
		Fields: meta.Fields{
			SystemMeta: map[string]interface{}{"version": "v0"},
			UserMeta:   map[string]interface{}{"author": "jane"},
		},
	}
}

func decodeSource(action *bulk.Action) map[string]interface{} {
	source := map[string]interface{}{}
	Expect(json.Unmarshal(action.Source, &source)).To(Succeed())
	return source
}

var _ = Describe("Document", func() {

	It("should form the composite identifier from key and version", func() {
		Expect(document.CompositeID("data/report.csv", "v1")).To(Equal("data/report.csv:v1"))
		Expect(document.CompositeID("data/report.csv", "")).To(Equal("data/report.csv:"))
	})

	It("should encode an index action with the document source", func() {
		doc := newDoc("data/report.csv:v1", 100, "name,value")

		action, err := doc.Action()
		Expect(err).ToNot(HaveOccurred())
		Expect(action.Op).To(Equal(bulk.OpIndex))
		Expect(action.Index).To(Equal("bucket"))
		Expect(action.ID).To(Equal("data/report.csv:v1"))

		source := decodeSource(action)
		Expect(source["key"]).To(Equal("data/report.csv:v1"))
		Expect(source["text"]).To(Equal("name,value"))
		Expect(source["user_meta"]).To(Equal(map[string]interface{}{"author": "jane"}))
	})

	It("should encode a delete action without a source", func() {
		doc := newDoc("data/report.csv:v1", 0, "")
		doc.Op = bulk.OpDelete

		action, err := doc.Action()
		Expect(err).ToNot(HaveOccurred())
		Expect(action.Op).To(Equal(bulk.OpDelete))
		Expect(action.Source).To(BeNil())
	})
})

var _ = Describe("Queue", func() {

	var (
		ctx    context.Context
		writer *mock_document.Writer
		queue  *document.Queue
	)

	BeforeEach(func() {
		ctx = context.Background()
		writer = &mock_document.Writer{}
		queue = document.NewQueue(logr.Discard(), writer, config.Indexer{
			DocSizeLimit: 10,
			QueueLimit:   100,
		})
	})

	It("should not write anything when flushed empty", func() {
		Expect(queue.Flush(ctx)).To(Succeed())
		Expect(writer.Calls).To(BeEmpty())
	})

	It("should hold documents below the queue limit", func() {
		for i := 0; i < 10; i++ {
			Expect(queue.Append(ctx, newDoc(string(rune('a'+i)), 10, "text"))).To(Succeed())
		}

		Expect(writer.Calls).To(BeEmpty())
		Expect(queue.Len()).To(Equal(10))
	})

	It("should flush early once the queued size crosses the limit", func() {
		for i := 0; i < 11; i++ {
			Expect(queue.Append(ctx, newDoc(string(rune('a'+i)), 10, "text"))).To(Succeed())
		}

		Expect(writer.Calls).To(HaveLen(1))
		Expect(writer.Calls[0]).To(HaveLen(11))
		Expect(queue.IsEmpty()).To(BeTrue())
	})

	It("should account each document with at most the document size limit", func() {
		// 5 huge objects still only count 10 bytes each
		for i := 0; i < 5; i++ {
			Expect(queue.Append(ctx, newDoc(string(rune('a'+i)), 1_000_000, "text"))).To(Succeed())
		}

		Expect(writer.Calls).To(BeEmpty())
	})

	It("should not account documents without text", func() {
		for i := 0; i < 50; i++ {
			Expect(queue.Append(ctx, newDoc(string(rune('a'+i)), 1_000_000, ""))).To(Succeed())
		}

		Expect(writer.Calls).To(BeEmpty())
		Expect(queue.Len()).To(Equal(50))
	})

	It("should resubmit schema rejections once with cleared metadata", func() {
		writer.Outcomes = [][]elasticsearch.ItemOutcome{
			{
				{Op: bulk.OpIndex, ID: "a", Status: 201},
				{Op: bulk.OpIndex, ID: "b", Status: 400, ErrorType: "mapper_parsing_exception", ErrorReason: "failed to parse field"},
				{Op: bulk.OpIndex, ID: "c", Status: 201},
			},
		}
		for _, id := range []string{"a", "b", "c"} {
			Expect(queue.Append(ctx, newDoc(id, 10, "text"))).To(Succeed())
		}

		Expect(queue.Flush(ctx)).To(Succeed())

		Expect(writer.Calls).To(HaveLen(2))
		Expect(writer.Calls[1]).To(HaveLen(1))
		Expect(writer.Calls[1][0].ID).To(Equal("b"))

		source := decodeSource(writer.Calls[1][0])
		Expect(source["user_meta"]).To(Equal(map[string]interface{}{}))
		Expect(source["system_meta"]).To(Equal(map[string]interface{}{}))
		Expect(queue.IsEmpty()).To(BeTrue())
	})

	It("should never resubmit rejected deletes", func() {
		writer.Outcomes = [][]elasticsearch.ItemOutcome{
			{{Op: bulk.OpDelete, ID: "a", Status: 400, ErrorType: "mapper_parsing_exception"}},
		}
		doc := newDoc("a", 0, "")
		doc.Op = bulk.OpDelete
		Expect(queue.Append(ctx, doc)).To(Succeed())

		Expect(queue.Flush(ctx)).To(Succeed())
		Expect(writer.Calls).To(HaveLen(1))
	})

	It("should only log rejections of other kinds", func() {
		writer.Outcomes = [][]elasticsearch.ItemOutcome{
			{{Op: bulk.OpIndex, ID: "a", Status: 400, ErrorType: "illegal_argument_exception"}},
		}
		Expect(queue.Append(ctx, newDoc("a", 10, "text"))).To(Succeed())

		Expect(queue.Flush(ctx)).To(Succeed())
		Expect(writer.Calls).To(HaveLen(1))
		Expect(queue.IsEmpty()).To(BeTrue())
	})

	It("should clear its state even when the bulk write fails", func() {
		writer.Errs = []error{errors.New("engine unreachable")}
		Expect(queue.Append(ctx, newDoc("a", 10, "text"))).To(Succeed())

		Expect(queue.Flush(ctx)).To(HaveOccurred())
		Expect(queue.IsEmpty()).To(BeTrue())

		// subsequent flushes start from a clean slate
		Expect(queue.Append(ctx, newDoc("b", 10, "text"))).To(Succeed())
		Expect(queue.Flush(ctx)).To(Succeed())
		Expect(writer.Calls).To(HaveLen(2))
		Expect(writer.Calls[1]).To(HaveLen(1))
		Expect(writer.Calls[1][0].ID).To(Equal("b"))
	})

	It("should clear its state even when the resubmission fails", func() {
		writer.Outcomes = [][]elasticsearch.ItemOutcome{
			{{Op: bulk.OpIndex, ID: "a", Status: 400, ErrorType: "mapper_parsing_exception"}},
		}
		writer.Errs = []error{nil, errors.New("engine unreachable")}
		Expect(queue.Append(ctx, newDoc("a", 10, "text"))).To(Succeed())

		Expect(queue.Flush(ctx)).To(HaveOccurred())
		Expect(writer.Calls).To(HaveLen(2))
		Expect(queue.IsEmpty()).To(BeTrue())
	})
})
