// SPDX-FileCopyrightText: 2026 Quilt Data contributors
//
// SPDX-License-Identifier: Apache-2.0

package mock_document

import (
	"context"

	"github.com/keshava/quilt/pkg/indexer/document"
	"github.com/keshava/quilt/pkg/util/elasticsearch"
	"github.com/keshava/quilt/pkg/util/elasticsearch/bulk"
)

// Writer is a mock bulk writer recording every action list it receives. The
// n-th call returns the n-th canned outcome list or error; without canned
// responses every action is reported as accepted.
type Writer struct {
	Calls    []bulk.ActionList
	Outcomes [][]elasticsearch.ItemOutcome
	Errs     []error
}

var _ document.BulkWriter = &Writer{}

func (w *Writer) Bulk(_ context.Context, actions bulk.ActionList) ([]elasticsearch.ItemOutcome, error) {
	call := len(w.Calls)
	w.Calls = append(w.Calls, actions)

	if call < len(w.Errs) && w.Errs[call] != nil {
		return nil, w.Errs[call]
	}
	if call < len(w.Outcomes) {
		return w.Outcomes[call], nil
	}

	outcomes := make([]elasticsearch.ItemOutcome, 0, len(actions))
	for _, action := range actions {
		outcomes = append(outcomes, elasticsearch.ItemOutcome{
			Op:     action.Op,
			ID:     action.ID,
			Status: 200,
		})
	}
	return outcomes, nil
}
