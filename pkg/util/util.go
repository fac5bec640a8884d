// SPDX-FileCopyrightText: 2026 Quilt Data contributors
//
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"bytes"
	"encoding/json"
)

// MarshalNoHTMLEscape is nearly same as json.Marshal but does NOT HTML-escape <, > or &
// However it does add a newline char at the end (as done by json.Encoder.Encode)
func MarshalNoHTMLEscape(v interface{}) ([]byte, error) {
	buffer := bytes.NewBuffer([]byte{})
	enc := json.NewEncoder(buffer)
	enc.SetEscapeHTML(false)
	err := enc.Encode(v)
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// StringArrayContains checks if a string array contains the string elem
func StringArrayContains(ar []string, elem string) bool {
	for _, val := range ar {
		if val == elem {
			return true
		}
	}
	return false
}
