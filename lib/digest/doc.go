// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest provides BLAKE3-256 content digests for vault files.
//
// The vault records the digest of every file's original bytes in the
// catalog when the file is added, and compares it with the digest of
// the decrypted, decompressed bytes before writing an extracted file.
// That catches a wrong compression flag in a hand-edited catalog or an
// envelope swapped for another file's, neither of which the envelope's
// own authentication can see.
//
// The API surface is small:
//
//   - [Sum] -- digests an in-memory buffer
//   - [File] -- streams a file through the hash with constant memory
//   - [Digest.String] -- the canonical lowercase hex form stored in the
//     catalog
//   - [Parse] -- parses the hex form back, validating length and
//     encoding
package digest
