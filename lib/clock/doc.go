// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// Code that stamps records with the current time accepts a Clock
// instead of calling time.Now directly. Production passes Real(); tests
// pass Fake() so timestamps are deterministic:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	v, err := vault.Open(vault.Options{Root: dir, Clock: c})
//	// ... entries added now carry 2026-01-01 ...
//	c.Advance(time.Hour)
package clock
