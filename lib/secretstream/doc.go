// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

// Package secretstream implements the XChaCha20-Poly1305 secret stream
// construction used by libsodium's crypto_secretstream_xchacha20poly1305.
//
// A stream is a sequence of authenticated chunks under one key. Each
// chunk carries a [Tag] and its authentication advances the stream
// state, so chunks cannot be dropped, duplicated or reordered without
// the receiver noticing. The receiver learns the end of the stream from
// [TagFinal] rather than from the transport, which defeats truncation.
//
// Output is byte-compatible with libsodium: a stream sealed here opens
// with crypto_secretstream_xchacha20poly1305_pull and vice versa, given
// no additional data. Additional data is not supported.
//
// The primitives come from golang.org/x/crypto: HChaCha20 derives the
// per-stream subkey, IETF ChaCha20 produces keystream, and Poly1305
// authenticates each chunk.
package secretstream
