// SPDX-FileCopyrightText: 2026 Quilt Data contributors
//
// SPDX-License-Identifier: Apache-2.0

package indexer

import (
	"context"
	"encoding/json"
	"path"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/keshava/quilt/pkg/apis/config"
	"github.com/keshava/quilt/pkg/indexer/document"
	"github.com/keshava/quilt/pkg/indexer/event"
	"github.com/keshava/quilt/pkg/indexer/extract"
	"github.com/keshava/quilt/pkg/indexer/meta"
	"github.com/keshava/quilt/pkg/util/elasticsearch/bulk"
	"github.com/keshava/quilt/pkg/util/s3"
)

// Indexer drives one batch of change notifications through object
// resolution, content extraction, document assembly and the bulk write.
type Indexer struct {
	log       logr.Logger
	cfg       config.Indexer
	store     s3.Client
	extractor *extract.Extractor
	writer    document.BulkWriter
}

// New creates an indexer for a single invocation. The object store and
// search engine clients are expected to be constructed fresh per invocation
// so that rotated credentials are picked up.
func New(log logr.Logger, cfg config.Indexer, store s3.Client, writer document.BulkWriter) *Indexer {
	return &Indexer{
		log:       log,
		cfg:       cfg,
		store:     store,
		extractor: extract.New(log, store, cfg.DocSizeLimit),
		writer:    writer,
	}
}

// HandleBatch enumerates the change events of one notification envelope,
// feeds the resulting documents into a queue and flushes the queue once per
// message. Failures of a single event are logged and skipped; only envelope
// decoding and the final bulk write can fail the whole batch.
func (ix *Indexer) HandleBatch(ctx context.Context, data []byte) error {
	envelope, err := event.ParseEnvelope(data)
	if err != nil {
		return err
	}

	for _, record := range envelope.Records {
		message, err := record.DecodeMessage()
		if err != nil {
			return err
		}
		if message.Records == nil {
			if message.Event == event.TestEvent {
				// initial subscription message, consume and ignore
				continue
			}
			ix.log.Info("unexpected message without records", "event", message.Event)
			continue
		}

		queue := document.NewQueue(ix.log, ix.writer, ix.cfg)
		for _, change := range message.Records {
			if err := ix.process(ctx, queue, change); err != nil {
				// the sibling events of the batch still proceed
				ix.log.Error(err, "unable to process change event",
					"eventName", change.EventName,
					"bucket", change.S3.Bucket.Name,
					"key", change.S3.Object.Key,
					"versionId", change.S3.Object.VersionID)
			}
		}
		if err := queue.Flush(ctx); err != nil {
			return err
		}
	}
	return nil
}

// process resolves one change event into an index document and queues it.
func (ix *Indexer) process(ctx context.Context, queue *document.Queue, change event.ChangeEvent) error {
	bucket, err := event.Unquote(change.S3.Bucket.Name)
	if err != nil {
		return err
	}
	key, err := event.UnquotePlus(change.S3.Object.Key)
	if err != nil {
		return err
	}
	etag, err := event.Unquote(change.S3.Object.ETag)
	if err != nil {
		return err
	}
	var versionID string
	if change.S3.Object.VersionID != "" {
		if versionID, err = event.Unquote(change.S3.Object.VersionID); err != nil {
			return err
		}
	}
	ext := strings.ToLower(path.Ext(key))

	ref := s3.ObjectRef{
		Bucket:    bucket,
		Key:       key,
		ETag:      etag,
		VersionID: versionID,
	}
	info, err := ix.store.Head(ctx, ref)
	if err != nil {
		return err
	}
	ref.Size = info.Size

	doc := &document.Document{
		ID:           document.CompositeID(key, versionID),
		Index:        bucket,
		Op:           bulk.OpIndex,
		ETag:         etag,
		Ext:          ext,
		Event:        change.EventName,
		Size:         info.Size,
		Key:          key,
		LastModified: info.LastModified.UTC().Format(time.RFC3339),
		Updated:      time.Now().UTC().Format(time.RFC3339),
		VersionID:    versionID,
	}

	if change.EventName == event.ObjectDelete {
		// permanent removal: queue the tombstone without fetching content
		doc.Op = bulk.OpDelete
		doc.Size = 0
		doc.Fields = meta.Transform(nil)
	} else {
		text, err := ix.extractor.Extract(ctx, ref, ext)
		if err != nil {
			// the document is still indexed with its metadata only
			ix.log.Info("unable to extract object content", "key", key, "error", err.Error())
			text = ""
		}
		doc.Text = text
		doc.Fields = meta.Transform(ix.objectMeta(info.Metadata, key))
	}

	// keep the key searchable even when no other metadata is present
	doc.MetaText = strings.Join([]string{doc.MetaText, key}, " ")

	return queue.Append(ctx, doc)
}

// objectMeta lowercases the raw metadata keys and parses the namespaced json
// annotations. A parse failure is logged and treated as absent metadata.
func (ix *Indexer) objectMeta(raw map[string]string, key string) map[string]interface{} {
	if len(raw) == 0 {
		return nil
	}

	metadata := make(map[string]interface{}, len(raw))
	for name, value := range raw {
		name = strings.ToLower(name)
		if name != meta.HeliumKey {
			metadata[name] = value
			continue
		}

		parsed := map[string]interface{}{}
		if err := json.Unmarshal([]byte(value), &parsed); err != nil {
			ix.log.Info("unable to parse namespaced object metadata", "key", key, "error", err.Error())
			continue
		}
		metadata[name] = parsed
	}
	return metadata
}
