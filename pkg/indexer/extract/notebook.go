// SPDX-FileCopyrightText: 2026 Quilt Data contributors
//
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

type notebook struct {
	Cells []notebookCell `json:"cells"`
}

type notebookCell struct {
	CellType string      `json:"cell_type"`
	Source   *cellSource `json:"source"`
}

// cellSource accepts both the plain-string and the line-list representation
// of a notebook cell source.
type cellSource string

func (s *cellSource) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*s = cellSource(text)
		return nil
	}

	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return err
	}
	*s = cellSource(strings.Join(lines, ""))
	return nil
}

// NotebookCells extracts the source of code and markdown cells, joined by
// newlines. Output streams and display data are deliberately not indexed;
// they proved noisy and low value.
func NotebookCells(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New("notebook is not valid utf-8")
	}

	nb := &notebook{}
	if err := json.Unmarshal(data, nb); err != nil {
		return "", errors.Wrap(err, "invalid notebook json")
	}

	text := make([]string, 0, len(nb.Cells))
	for _, cell := range nb.Cells {
		if cell.Source == nil {
			continue
		}
		if cell.CellType == "code" || cell.CellType == "markdown" {
			text = append(text, string(*cell.Source))
		}
	}

	return strings.Join(text, "\n"), nil
}
