// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

// Package vault stores files as password-encrypted envelopes under a
// root directory and tracks them in a [catalog].
//
// The layout under Options.Root is fixed:
//
//	vault_index.json      catalog: name → id, compression flag, checksum
//	vault_data/<id>       one envelope per stored file
//
// Adding a file compresses it with [huffman] (unless that would not
// shrink it, or the mode forbids it), encrypts the result with
// [envelope], and commits it under a fresh id before the catalog is
// saved. Extracting reverses the pipeline and verifies the BLAKE3
// checksum recorded at add time before writing extracted_<name> into
// the destination directory.
//
// Every file is written through [atomicfile], so a failure at any
// step leaves neither a partial output nor a stray temporary file.
package vault
