// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds passwords and derived encryption keys in memory
// that the Go runtime never sees.
//
// [Buffer] allocates its storage with mmap(MAP_ANONYMOUS), locks it
// into physical RAM with mlock so it cannot be swapped out, and marks
// it MADV_DONTDUMP so it is excluded from core dumps. Close zeroes,
// unlocks and unmaps the region. Because the garbage collector cannot
// move or copy the memory, a closed buffer leaves no stray copies.
//
// Constructors:
//
//   - [New] -- a zero-filled buffer of a given size
//   - [NewFromBytes] -- copies into protected memory, zeroes the source
//   - [ReadFromPath] -- reads a password from a file or stdin ("-")
//
// [Buffer.Equal] compares in constant time. [Zero] clears ordinary
// heap slices that briefly held secret material (terminal input, KDF
// output) before it was moved into a Buffer.
//
// Depends on golang.org/x/sys/unix.
package secret
