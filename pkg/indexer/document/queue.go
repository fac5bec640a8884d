// SPDX-FileCopyrightText: 2026 Quilt Data contributors
//
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"context"
	"strings"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"

	"github.com/keshava/quilt/pkg/apis/config"
	"github.com/keshava/quilt/pkg/util/elasticsearch"
	"github.com/keshava/quilt/pkg/util/elasticsearch/bulk"
)

// mapperParsingException marks a write rejected because a previous write
// fixed a field's type in the index schema. Only this error kind is
// recoverable by clearing the free-form metadata.
const mapperParsingException = "mapper_parsing_exception"

// BulkWriter is the bulk index/delete interface of the search engine.
type BulkWriter interface {
	Bulk(ctx context.Context, actions bulk.ActionList) ([]elasticsearch.ItemOutcome, error)
}

var _ BulkWriter = elasticsearch.Client(nil)

// Queue is the transient in-memory queue for documents to be indexed. It is
// owned by exactly one batch run and never persisted.
type Queue struct {
	log    logr.Logger
	writer BulkWriter

	sizeLimit  int
	queueLimit int64

	docs []*Document
	size int64
}

// NewQueue creates an empty document queue writing through the given bulk
// writer.
func NewQueue(log logr.Logger, writer BulkWriter, cfg config.Indexer) *Queue {
	return &Queue{
		log:        log,
		writer:     writer,
		sizeLimit:  cfg.DocSizeLimit,
		queueLimit: cfg.QueueLimit,
	}
}

// IsEmpty reports whether no documents are queued.
func (q *Queue) IsEmpty() bool {
	return len(q.docs) == 0
}

// Len returns the number of queued documents.
func (q *Queue) Len() int {
	return len(q.docs)
}

// Append queues a document and flushes early once the approximate queued
// size crosses the queue limit, so a single huge batch cannot grow unbounded
// before any write happens.
func (q *Queue) Append(ctx context.Context, doc *Document) error {
	if doc.Text != "" {
		// documents dominate the memory footprint, there is also a fixed
		// size for the rest of the doc that we do not account for
		size := doc.Size
		if size > int64(q.sizeLimit) {
			size = int64(q.sizeLimit)
		}
		q.size += size
	}
	q.docs = append(q.docs, doc)

	if q.size > q.queueLimit {
		return q.Flush(ctx)
	}
	return nil
}

// Flush writes all queued documents in one bulk attempt, re-submits the
// subset rejected with a recoverable schema mismatch exactly once with
// cleared free-form metadata, and clears the queue state regardless of the
// second attempt's outcome. Transient rate limiting is handled inside the
// bulk transport; there is no further retry here.
func (q *Queue) Flush(ctx context.Context) error {
	if q.IsEmpty() {
		return nil
	}
	defer func() {
		q.docs = nil
		q.size = 0
	}()

	actions, byID, err := encodeActions(q.docs)
	if err != nil {
		return err
	}

	outcomes, err := q.writer.Bulk(ctx, actions)
	if err != nil {
		return errors.Wrap(err, "bulk write failed")
	}

	sendAgain := make([]*Document, 0)
	for _, outcome := range outcomes {
		if outcome.Ok() {
			continue
		}
		// only index rejections are candidates, never delete errors
		if outcome.Op == bulk.OpIndex && strings.Contains(outcome.ErrorType, mapperParsingException) {
			doc, ok := byID[outcome.ID]
			if !ok {
				continue
			}
			// trade metadata fidelity for index acceptance
			doc.UserMeta = map[string]interface{}{}
			doc.SystemMeta = map[string]interface{}{}
			sendAgain = append(sendAgain, doc)
			continue
		}
		q.log.Info("document was rejected", "id", outcome.ID, "op", outcome.Op,
			"status", outcome.Status, "errorType", outcome.ErrorType, "reason", outcome.ErrorReason)
	}

	if len(sendAgain) == 0 {
		return nil
	}

	retryActions, _, err := encodeActions(sendAgain)
	if err != nil {
		return err
	}
	if _, err := q.writer.Bulk(ctx, retryActions); err != nil {
		return errors.Wrap(err, "bulk retry failed")
	}
	return nil
}

func encodeActions(docs []*Document) (bulk.ActionList, map[string]*Document, error) {
	actions := make(bulk.ActionList, 0, len(docs))
	byID := make(map[string]*Document, len(docs))
	for _, doc := range docs {
		action, err := doc.Action()
		if err != nil {
			return nil, nil, err
		}
		actions = append(actions, action)
		byID[doc.ID] = doc
	}
	return actions, byID, nil
}
