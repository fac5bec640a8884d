// SPDX-FileCopyrightText: 2026 Quilt Data contributors
//
// SPDX-License-Identifier: Apache-2.0

package bulk

import (
	"bytes"
	"fmt"

	"github.com/keshava/quilt/pkg/util"
)

var newLine = []byte("\n")

// Marshal creates the newline delimited json representation of a single bulk
// action: the action metadata line followed by the document source for
// non-delete operations.
func (a *Action) Marshal() ([]byte, error) {
	meta, err := util.MarshalNoHTMLEscape(map[OpType]ESIndex{
		a.Op: {
			Index: a.Index,
			Type:  DocType,
			ID:    a.ID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("cannot marshal bulk action metadata: %s", err.Error())
	}

	buf := bytes.NewBuffer([]byte{})
	buf.Write(meta)
	if a.Op != OpDelete && a.Source != nil {
		buf.Write(a.Source)
		if !bytes.HasSuffix(a.Source, newLine) {
			buf.Write(newLine)
		}
	}

	return buf.Bytes(), nil
}

// Marshal encodes the list as bulk request payloads, each below maxBytes and
// containing at most maxActions actions, to respect the search engine's
// request size ceiling.
func (l ActionList) Marshal(maxBytes, maxActions int) ([][]byte, error) {
	content := [][]byte{}

	buffer := bytes.NewBuffer([]byte{})
	count := 0
	for _, action := range l {
		data, err := action.Marshal()
		if err != nil {
			return nil, err
		}

		if count > 0 && (buffer.Len()+len(data) >= maxBytes || count >= maxActions) {
			content = append(content, buffer.Bytes())
			buffer = bytes.NewBuffer([]byte{})
			count = 0
		}
		buffer.Write(data)
		count++
	}
	if buffer.Len() > 0 {
		content = append(content, buffer.Bytes())
	}

	return content, nil
}
