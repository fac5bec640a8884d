// SPDX-FileCopyrightText: 2026 Quilt Data contributors
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"time"
)

// Config is the complete configuration of the indexer.
type Config struct {
	Elasticsearch ElasticSearch `json:"elasticsearch"`
	S3            S3            `json:"s3"`
	Indexer       Indexer       `json:"indexer"`
}

// Indexer holds the tunables of the indexing pipeline.
type Indexer struct {
	// DocSizeLimit is the maximum number of text bytes indexed per document.
	// Inbound content is truncated to this limit to bound memory pressure and
	// request size towards elasticsearch.
	DocSizeLimit int `json:"docSizeLimit,omitempty"`

	// QueueLimit is the approximate byte size of queued documents at which the
	// document queue flushes before the end of the batch.
	QueueLimit int64 `json:"queueLimit,omitempty"`

	// InvocationBudget is the wall-clock budget of one indexer invocation.
	// The object store retry loop stops issuing new attempts when the budget
	// runs out.
	InvocationBudget time.Duration `json:"invocationBudget,omitempty"`
}

const (
	// DefaultDocSizeLimit bounds the indexed text of a single document.
	DefaultDocSizeLimit = 10_000

	// DefaultQueueLimit bounds the approximate size of the document queue.
	DefaultQueueLimit int64 = 100_000_000

	// DefaultInvocationBudget is the default wall-clock budget per invocation.
	DefaultInvocationBudget = 15 * time.Minute
)

// SetDefaults sets default values for all unset tunables.
func (c *Config) SetDefaults() {
	if c.Indexer.DocSizeLimit == 0 {
		c.Indexer.DocSizeLimit = DefaultDocSizeLimit
	}
	if c.Indexer.QueueLimit == 0 {
		c.Indexer.QueueLimit = DefaultQueueLimit
	}
	if c.Indexer.InvocationBudget == 0 {
		c.Indexer.InvocationBudget = DefaultInvocationBudget
	}
}
