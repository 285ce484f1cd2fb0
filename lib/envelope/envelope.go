// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

package envelope

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/encryptify/encryptify/lib/secret"
	"github.com/encryptify/encryptify/lib/secretstream"
)

const (
	// SaltSize is the Argon2id salt length (crypto_pwhash_SALTBYTES).
	SaltSize = 16

	// ChunkSize is the largest plaintext carried by one chunk.
	ChunkSize = 4096

	// PreambleSize is the fixed prefix before the first chunk.
	PreambleSize = SaltSize + secretstream.HeaderSize

	// maxSealedChunk is the largest chunk on disk.
	maxSealedChunk = ChunkSize + secretstream.Overhead
)

var (
	// ErrFormat reports an envelope whose structure is wrong: too short
	// for the salt and header, or bytes after the final chunk.
	ErrFormat = errors.New("envelope: invalid format")

	// ErrTruncated reports an envelope that ends before its final
	// chunk.
	ErrTruncated = errors.New("envelope: truncated")

	// ErrAuthentication reports a chunk that failed authentication.
	// A wrong password and modified ciphertext are indistinguishable.
	ErrAuthentication = secretstream.ErrAuthentication
)

// Codec encrypts and decrypts envelopes with fixed KDF parameters.
// Both sides of an envelope must use the same parameters.
type Codec struct {
	KDF KDFParams
}

// New returns a Codec using ModerateKDF.
func New() *Codec {
	return &Codec{KDF: ModerateKDF}
}

// SealedSize returns the envelope size for a plaintext of n bytes.
func SealedSize(n int64) int64 {
	full := n / ChunkSize
	return PreambleSize + full*maxSealedChunk + (n - full*ChunkSize) + secretstream.Overhead
}

// EncryptStream reads src to EOF and writes its envelope to dst.
func (c *Codec) EncryptStream(dst io.Writer, src io.Reader, password *secret.Buffer) error {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("generating salt: %w", err)
	}

	key, err := DeriveKey(password, salt, c.KDF)
	if err != nil {
		return err
	}
	defer key.Close()

	encryptor, header, err := secretstream.NewEncryptor(key.Bytes())
	if err != nil {
		return err
	}
	defer encryptor.Wipe()

	if _, err := dst.Write(salt); err != nil {
		return fmt.Errorf("writing salt: %w", err)
	}
	if _, err := dst.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	plaintext := make([]byte, ChunkSize)
	defer secret.Zero(plaintext)
	sealed := make([]byte, 0, maxSealedChunk)

	for index := 0; ; index++ {
		n, readErr := io.ReadFull(src, plaintext)
		tag := secretstream.TagMessage
		switch {
		case readErr == io.EOF || readErr == io.ErrUnexpectedEOF:
			tag = secretstream.TagFinal
		case readErr != nil:
			return fmt.Errorf("reading plaintext: %w", readErr)
		}

		sealed, err = encryptor.Seal(sealed[:0], plaintext[:n], tag)
		if err != nil {
			return fmt.Errorf("sealing chunk %d: %w", index, err)
		}
		if _, err := dst.Write(sealed); err != nil {
			return fmt.Errorf("writing chunk %d: %w", index, err)
		}
		if tag == secretstream.TagFinal {
			return nil
		}
	}
}

// DecryptStream reads an envelope from src and writes the plaintext to
// dst, one authenticated chunk at a time. On error, dst may hold the
// plaintext of chunks that verified before the failure; callers
// writing to a file must discard it.
func (c *Codec) DecryptStream(dst io.Writer, src io.Reader, password *secret.Buffer) error {
	preamble := make([]byte, PreambleSize)
	if n, err := io.ReadFull(src, preamble); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return fmt.Errorf("%w: %d bytes is shorter than the %d-byte salt and header",
				ErrFormat, n, PreambleSize)
		}
		return fmt.Errorf("reading salt and header: %w", err)
	}
	salt, header := preamble[:SaltSize], preamble[SaltSize:]

	key, err := DeriveKey(password, salt, c.KDF)
	if err != nil {
		return err
	}
	defer key.Close()

	decryptor, err := secretstream.NewDecryptor(key.Bytes(), header)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFormat, err)
	}
	defer decryptor.Wipe()

	chunk := make([]byte, maxSealedChunk)
	plaintext := make([]byte, 0, ChunkSize)
	defer secret.Zero(plaintext[:cap(plaintext)])

	for index := 0; ; index++ {
		n, readErr := io.ReadFull(src, chunk)
		atEOF := false
		switch {
		case readErr == io.EOF:
			return fmt.Errorf("%w: stream ends after %d chunks without a final chunk", ErrTruncated, index)
		case readErr == io.ErrUnexpectedEOF:
			atEOF = true
		case readErr != nil:
			return fmt.Errorf("reading chunk %d: %w", index, readErr)
		}
		if n < secretstream.Overhead {
			return fmt.Errorf("%w: chunk %d is %d bytes, shorter than the %d-byte overhead",
				ErrTruncated, index, n, secretstream.Overhead)
		}

		var tag secretstream.Tag
		plaintext, tag, err = decryptor.Open(plaintext[:0], chunk[:n])
		if err != nil {
			return fmt.Errorf("chunk %d: %w", index, err)
		}

		if tag == secretstream.TagFinal {
			if !atEOF {
				if err := expectEOF(src); err != nil {
					return err
				}
			}
			if _, err := dst.Write(plaintext); err != nil {
				return fmt.Errorf("writing plaintext: %w", err)
			}
			return nil
		}
		if atEOF {
			return fmt.Errorf("%w: last chunk %d is not marked final", ErrTruncated, index)
		}
		if _, err := dst.Write(plaintext); err != nil {
			return fmt.Errorf("writing plaintext: %w", err)
		}
	}
}

func expectEOF(src io.Reader) error {
	var probe [1]byte
	n, err := io.ReadFull(src, probe[:])
	if n > 0 {
		return fmt.Errorf("%w: data follows the final chunk", ErrFormat)
	}
	if err != nil && err != io.EOF {
		return fmt.Errorf("reading past final chunk: %w", err)
	}
	return nil
}

// Encrypt returns the envelope for plaintext.
func (c *Codec) Encrypt(plaintext []byte, password *secret.Buffer) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(int(SealedSize(int64(len(plaintext)))))
	if err := c.EncryptStream(&out, bytes.NewReader(plaintext), password); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Decrypt opens an envelope held in memory. On any error it returns
// nil, never partial plaintext.
func (c *Codec) Decrypt(envelope []byte, password *secret.Buffer) ([]byte, error) {
	var out bytes.Buffer
	if len(envelope) > PreambleSize {
		out.Grow(len(envelope) - PreambleSize)
	}
	if err := c.DecryptStream(&out, bytes.NewReader(envelope), password); err != nil {
		secret.Zero(out.Bytes())
		return nil, err
	}
	return out.Bytes(), nil
}
