// SPDX-FileCopyrightText: 2026 Quilt Data contributors
//
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"github.com/keshava/quilt/pkg/indexer/meta"
	"github.com/keshava/quilt/pkg/util"
	"github.com/keshava/quilt/pkg/util/elasticsearch/bulk"
)

// Document is the unit written to the search engine.
//
// Be VERY CAREFUL changing the indexed fields: a type change can cause
// mapper_parsing_exception rejections on buckets whose index schema has
// already been established.
type Document struct {
	// ID is the composite identifier "key:version_id", so re-indexing the
	// same key and version upserts instead of duplicating. ':' is a legal
	// character in object keys, so look for the last occurrence if you need
	// to split off the, potentially empty, version id.
	ID string `json:"-"`

	// Index is the search index written to, equal to the bucket name.
	Index string `json:"-"`

	// Op is the bulk operation of this document.
	Op bulk.OpType `json:"-"`

	ETag         string `json:"etag"`
	Ext          string `json:"ext"`
	Event        string `json:"event"`
	Size         int64  `json:"size"`
	Text         string `json:"text"`
	Key          string `json:"key"`
	LastModified string `json:"last_modified"`
	Updated      string `json:"updated"`
	VersionID    string `json:"version_id"`

	meta.Fields
}

// CompositeID forms the document identifier from object key and version.
func CompositeID(key, versionID string) string {
	return key + ":" + versionID
}

// Action encodes the document as a bulk action. Delete actions carry no
// source.
func (d *Document) Action() (*bulk.Action, error) {
	action := &bulk.Action{
		Op:    d.Op,
		Index: d.Index,
		ID:    d.ID,
	}
	if d.Op != bulk.OpDelete {
		source, err := util.MarshalNoHTMLEscape(d)
		if err != nil {
			return nil, err
		}
		action.Source = source
	}
	return action, nil
}
