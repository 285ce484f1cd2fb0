// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Real returns a Clock backed by the standard time package. Times are
// in UTC with the monotonic reading stripped, ready for persistence.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC().Round(0) }
