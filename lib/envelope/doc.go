// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

// Package envelope encrypts byte streams under a password.
//
// An envelope is laid out as
//
//	salt[16] ‖ header[24] ‖ chunk+
//
// The salt feeds Argon2id key derivation, the header initializes a
// [secretstream] stream under the derived key, and each chunk is one
// sealed piece of at most [ChunkSize] plaintext bytes. Every full
// chunk carries [secretstream.TagMessage]; the remainder, which may be
// empty, is always sealed as [secretstream.TagFinal]. Decryption stops
// at the final chunk and rejects any bytes after it, and rejects a
// stream that ends without one.
//
// The layout matches what libsodium's crypto_pwhash (Argon2id) and
// crypto_secretstream_xchacha20poly1305 produce, so envelopes written by
// any libsodium-based encryptify build open here given the same KDF
// parameters. KDF parameters are not recorded in the envelope.
package envelope
