// SPDX-FileCopyrightText: 2026 Quilt Data contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/keshava/quilt/cmd/indexer/cmd"
)

func main() {
	cmd.Execute()
}
