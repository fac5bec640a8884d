// SPDX-FileCopyrightText: 2026 Quilt Data contributors
//
// SPDX-License-Identifier: Apache-2.0

package bulk

// OpType is the bulk operation of one action.
type OpType string

const (
	// OpIndex upserts a document and clobbers an existing equivalent _id.
	OpIndex OpType = "index"
	// OpDelete removes a document.
	OpDelete OpType = "delete"
)

// DocType is the mapping type sent with every action.
const DocType = "_doc"

// Action is the internal representation of one elastic search bulk action.
type Action struct {
	Op    OpType
	Index string
	ID    string

	// Source is the document body. It is ignored for delete actions.
	Source []byte
}

// ActionList is a list of bulk actions.
type ActionList []*Action

// ESIndex is the elastic search index where the bulk data is stored.
type ESIndex struct {
	Index string `json:"_index,omitempty"`
	Type  string `json:"_type,omitempty"`
	ID    string `json:"_id,omitempty"`
}
