// SPDX-FileCopyrightText: 2026 Quilt Data contributors
//
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"time"
)

// TimeBudget reports how much wall-clock time the current invocation has left.
// It stands in for the remaining-time query of the hosting execution
// environment so that deadline handling stays testable.
type TimeBudget interface {
	Remaining() time.Duration
}

type deadlineBudget struct {
	deadline time.Time
}

// NewTimeBudget returns a TimeBudget that counts down from now.
func NewTimeBudget(budget time.Duration) TimeBudget {
	return &deadlineBudget{deadline: time.Now().Add(budget)}
}

func (b *deadlineBudget) Remaining() time.Duration {
	remaining := time.Until(b.deadline)
	if remaining < 0 {
		return 0
	}
	return remaining
}
