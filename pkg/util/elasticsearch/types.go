// SPDX-FileCopyrightText: 2026 Quilt Data contributors
//
// SPDX-License-Identifier: Apache-2.0

package elasticsearch

import (
	"encoding/json"

	"github.com/keshava/quilt/pkg/util/elasticsearch/bulk"
)

// BulkResponse is the response of an elastic search _bulk request.
type BulkResponse struct {
	Took   int             `json:"took"`
	Errors bool            `json:"errors"`
	Items  json.RawMessage `json:"items,omitempty"`
}

// BulkResponseItem is the per-action result within a bulk response, keyed by
// the action's operation.
type BulkResponseItem struct {
	Index  string             `json:"_index"`
	ID     string             `json:"_id"`
	Status int                `json:"status"`
	Error  *BulkResponseError `json:"error,omitempty"`
}

// BulkResponseError describes why a single bulk action was rejected.
type BulkResponseError struct {
	Type   string `json:"type"`
	Reason string `json:"reason,omitempty"`
}

// ItemOutcome is the structured per-document outcome of a bulk write.
type ItemOutcome struct {
	Op          bulk.OpType
	ID          string
	Status      int
	ErrorType   string
	ErrorReason string
}

// Ok reports whether the action was accepted.
func (o ItemOutcome) Ok() bool {
	return o.Status >= 200 && o.Status <= 299
}
