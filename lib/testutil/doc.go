// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for Encryptify
// packages.
//
// [RandomBytes] and [Text] produce deterministic inputs: a seeded
// ChaCha8 stream for high-entropy data and repeated prose for
// compressible data. [Password] wraps a literal in a [secret.Buffer]
// that is closed when the test completes. [RequireNoError] and
// [RequireErrorIs] fail the test with a formatted message. [DirNames]
// lists a directory so tests can assert that no staging files were
// left behind.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
