// SPDX-FileCopyrightText: 2026 Quilt Data contributors
//
// SPDX-License-Identifier: Apache-2.0

package event

// Envelope is the inbound queue envelope carrying an ordered sequence of
// message records. Each record body is itself a json encoded notification
// wrapper.
type Envelope struct {
	Records []EnvelopeRecord `json:"Records"`
}

// EnvelopeRecord is a single queue message within an envelope.
type EnvelopeRecord struct {
	Body string `json:"body"`
}

// Message is one decoded notification: either the queue's initial test event
// or an ordered sequence of change events.
type Message struct {
	Event   string        `json:"Event,omitempty"`
	Records []ChangeEvent `json:"Records,omitempty"`
}

// ChangeEvent describes a single object-store change, following the s3
// notification content structure.
type ChangeEvent struct {
	EventVersion string   `json:"eventVersion,omitempty"`
	EventSource  string   `json:"eventSource,omitempty"`
	EventTime    string   `json:"eventTime,omitempty"`
	EventName    string   `json:"eventName"`
	S3           S3Entity `json:"s3"`
}

// S3Entity carries the bucket and object of a change event.
type S3Entity struct {
	Bucket BucketEntity `json:"bucket"`
	Object ObjectEntity `json:"object"`
}

// BucketEntity identifies the notifying bucket.
type BucketEntity struct {
	Name string `json:"name"`
}

// ObjectEntity identifies the changed object version.
type ObjectEntity struct {
	Key       string `json:"key"`
	Size      int64  `json:"size,omitempty"`
	ETag      string `json:"eTag"`
	VersionID string `json:"versionId,omitempty"`
	Sequencer string `json:"sequencer,omitempty"`
}
