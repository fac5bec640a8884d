// SPDX-FileCopyrightText: 2026 Quilt Data contributors
//
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"unicode/utf8"
)

// TrimToBytes trims a string to at most limit bytes without splitting a
// multi-byte rune, so the result always decodes cleanly.
func TrimToBytes(text string, limit int) string {
	if len(text) <= limit {
		return text
	}

	trimmed := []byte(text)[:limit]
	for len(trimmed) > 0 {
		r, size := utf8.DecodeLastRune(trimmed)
		if r != utf8.RuneError || size > 1 {
			break
		}
		trimmed = trimmed[:len(trimmed)-1]
	}
	return string(trimmed)
}
