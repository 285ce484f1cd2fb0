// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

package envelope

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"

	"github.com/encryptify/encryptify/lib/secret"
	"github.com/encryptify/encryptify/lib/secretstream"
)

// ErrKeyDerivation reports a password hashing failure: invalid
// parameters, a bad salt, or no guarded memory for the key.
var ErrKeyDerivation = errors.New("envelope: key derivation failed")

// KDFParams are Argon2id cost parameters.
type KDFParams struct {
	// Time is the number of passes over memory (libsodium's opslimit).
	Time uint32 `yaml:"time"`

	// MemoryKiB is the memory cost in KiB (libsodium's memlimit / 1024).
	MemoryKiB uint32 `yaml:"memory_kib"`

	// Threads is the degree of parallelism. libsodium always uses 1.
	Threads uint8 `yaml:"threads"`
}

var (
	// ModerateKDF matches crypto_pwhash_OPSLIMIT_MODERATE and
	// crypto_pwhash_MEMLIMIT_MODERATE.
	ModerateKDF = KDFParams{Time: 3, MemoryKiB: 256 * 1024, Threads: 1}

	// InteractiveKDF matches crypto_pwhash_OPSLIMIT_INTERACTIVE and
	// crypto_pwhash_MEMLIMIT_INTERACTIVE.
	InteractiveKDF = KDFParams{Time: 2, MemoryKiB: 64 * 1024, Threads: 1}
)

// Validate checks the parameters against Argon2's lower bounds.
func (p KDFParams) Validate() error {
	var errs []error
	if p.Time < 1 {
		errs = append(errs, fmt.Errorf("time must be at least 1"))
	}
	if p.Threads < 1 {
		errs = append(errs, fmt.Errorf("threads must be at least 1"))
	}
	if p.MemoryKiB < 8*uint32(max(p.Threads, 1)) {
		errs = append(errs, fmt.Errorf("memory_kib must be at least 8 per thread, got %d", p.MemoryKiB))
	}
	return errors.Join(errs...)
}

// DeriveKey hashes password with salt into a stream key held in
// guarded memory. The caller must Close the returned buffer.
func DeriveKey(password *secret.Buffer, salt []byte, params KDFParams) (*secret.Buffer, error) {
	if password == nil {
		return nil, fmt.Errorf("%w: no password", ErrKeyDerivation)
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", ErrKeyDerivation, SaltSize, len(salt))
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyDerivation, err)
	}

	derived := argon2.IDKey(password.Bytes(), salt, params.Time, params.MemoryKiB, params.Threads, secretstream.KeySize)
	key, err := secret.NewFromBytes(derived)
	if err != nil {
		secret.Zero(derived)
		return nil, fmt.Errorf("%w: %v", ErrKeyDerivation, err)
	}
	return key, nil
}
