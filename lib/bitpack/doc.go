// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

// Package bitpack packs arbitrary-length bit sequences into
// byte-aligned storage and back.
//
// A [Bits] value carries its exact length alongside the packed bytes,
// so the zero padding of the final byte never leaks into decoded data.
// [Writer] builds sequences bit by bit (or from fixed-width values and
// other sequences); [Reader] walks them. [Pack] and [Unpack] are the
// storage boundary: Unpack rejects buffers too short for the declared
// bit count with [ErrTruncated].
//
// Bit order is most-significant first within each byte, matching the
// textual "0101..." rendering produced by [Bits.String].
package bitpack
