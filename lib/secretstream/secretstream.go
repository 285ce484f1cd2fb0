// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

package secretstream

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/poly1305"
)

const (
	// KeySize is the size of a stream key in bytes.
	KeySize = chacha20.KeySize

	// HeaderSize is the size of the stream header. The header is
	// random, not secret, and must reach the receiver before the first
	// chunk.
	HeaderSize = 24

	// Overhead is the number of bytes Seal adds to each message: one
	// encrypted tag byte and a 16-byte Poly1305 tag.
	Overhead = 1 + poly1305.TagSize

	// MaxMessageSize is the largest message a single chunk may carry.
	MaxMessageSize uint64 = 64 * ((1 << 32) - 2)
)

// Tag classifies a chunk within a stream.
type Tag uint8

const (
	// TagMessage marks an ordinary chunk.
	TagMessage Tag = 0
	// TagPush marks the end of a logical message within the stream.
	TagPush Tag = 1
	// TagRekey forces both sides to derive a new key after this chunk.
	TagRekey Tag = 2
	// TagFinal marks the last chunk of the stream.
	TagFinal = TagPush | TagRekey
)

// String returns the tag name.
func (t Tag) String() string {
	switch t {
	case TagMessage:
		return "message"
	case TagPush:
		return "push"
	case TagRekey:
		return "rekey"
	case TagFinal:
		return "final"
	default:
		return fmt.Sprintf("tag(%d)", uint8(t))
	}
}

var (
	// ErrAuthentication is returned by Open when a chunk fails
	// authentication: wrong key, modified bytes, or a chunk out of
	// sequence.
	ErrAuthentication = errors.New("secretstream: message authentication failed")

	// ErrStreamClosed is returned by an Encryptor after Wipe, and by a
	// Decryptor after Wipe or after any failed Open.
	ErrStreamClosed = errors.New("secretstream: stream is no longer usable")
)

const (
	counterSize = 4
	nonceSize   = chacha20.NonceSize
	blockSize   = 64
)

var zeroPad [16]byte

// state is the evolving key and nonce shared by both directions. The
// nonce is a 4-byte little-endian counter followed by 8 bytes of
// internal nonce that absorb each chunk's MAC.
type state struct {
	key   [KeySize]byte
	nonce [nonceSize]byte
}

func (s *state) init(key, header []byte) error {
	if len(key) != KeySize {
		return fmt.Errorf("secretstream: key must be %d bytes, got %d", KeySize, len(key))
	}
	if len(header) != HeaderSize {
		return fmt.Errorf("secretstream: header must be %d bytes, got %d", HeaderSize, len(header))
	}
	subkey, err := chacha20.HChaCha20(key, header[:16])
	if err != nil {
		return fmt.Errorf("secretstream: deriving subkey: %w", err)
	}
	copy(s.key[:], subkey)
	clear(subkey)
	s.resetCounter()
	copy(s.nonce[counterSize:], header[16:])
	return nil
}

func (s *state) resetCounter() {
	clear(s.nonce[:counterSize])
	s.nonce[0] = 1
}

func (s *state) cipher() *chacha20.Cipher {
	// Key and nonce sizes are fixed by the array types.
	cipher, err := chacha20.NewUnauthenticatedCipher(s.key[:], s.nonce[:])
	if err != nil {
		panic("secretstream: " + err.Error())
	}
	return cipher
}

// authenticator returns a Poly1305 instance keyed from the first
// keystream block, plus the cipher positioned at block 1.
func (s *state) authenticator() (*chacha20.Cipher, *poly1305.MAC) {
	cipher := s.cipher()
	var block [blockSize]byte
	cipher.XORKeyStream(block[:], block[:])
	var macKey [32]byte
	copy(macKey[:], block[:32])
	clear(block[:])
	mac := poly1305.New(&macKey)
	clear(macKey[:])
	return cipher, mac
}

// finish authenticates the zero padding and then the lengths block.
// The padding length is (16 - 64 + mlen) mod 16, as libsodium
// computes it.
func finish(mac *poly1305.MAC, messageLength int) {
	mac.Write(zeroPad[:(0x10-blockSize+messageLength)&0xf])
	var lengths [16]byte
	binary.LittleEndian.PutUint64(lengths[:8], 0)
	binary.LittleEndian.PutUint64(lengths[8:], uint64(blockSize+messageLength))
	mac.Write(lengths[:])
}

// advance folds the chunk MAC into the nonce and steps the counter,
// rekeying when the tag asks for it or the counter wraps.
func (s *state) advance(tag Tag, chunkMAC []byte) {
	for i := range 8 {
		s.nonce[counterSize+i] ^= chunkMAC[i]
	}
	counter := binary.LittleEndian.Uint32(s.nonce[:counterSize]) + 1
	binary.LittleEndian.PutUint32(s.nonce[:counterSize], counter)
	if tag&TagRekey != 0 || counter == 0 {
		s.rekey()
	}
}

func (s *state) rekey() {
	var material [KeySize + 8]byte
	copy(material[:KeySize], s.key[:])
	copy(material[KeySize:], s.nonce[counterSize:])
	s.cipher().XORKeyStream(material[:], material[:])
	copy(s.key[:], material[:KeySize])
	copy(s.nonce[counterSize:], material[KeySize:])
	clear(material[:])
	s.resetCounter()
}

func (s *state) wipe() {
	clear(s.key[:])
	clear(s.nonce[:])
}

// Encryptor seals chunks of one stream. Not safe for concurrent use.
type Encryptor struct {
	state state
	wiped bool
}

// NewEncryptor starts a stream under key and returns the header the
// receiver needs to open it.
func NewEncryptor(key []byte) (*Encryptor, []byte, error) {
	header := make([]byte, HeaderSize)
	if _, err := rand.Read(header); err != nil {
		return nil, nil, fmt.Errorf("secretstream: generating header: %w", err)
	}
	encryptor, err := newEncryptorWithHeader(key, header)
	if err != nil {
		return nil, nil, err
	}
	return encryptor, header, nil
}

func newEncryptorWithHeader(key, header []byte) (*Encryptor, error) {
	encryptor := &Encryptor{}
	if err := encryptor.state.init(key, header); err != nil {
		return nil, err
	}
	return encryptor, nil
}

// Seal encrypts and authenticates plaintext as the next chunk of the
// stream, appends the result to dst and returns the extended slice.
// The chunk is len(plaintext)+Overhead bytes.
func (e *Encryptor) Seal(dst, plaintext []byte, tag Tag) ([]byte, error) {
	if e.wiped {
		return nil, ErrStreamClosed
	}
	if uint64(len(plaintext)) > MaxMessageSize {
		return nil, fmt.Errorf("secretstream: message of %d bytes exceeds the chunk limit", len(plaintext))
	}

	cipher, mac := e.state.authenticator()

	var block [blockSize]byte
	block[0] = byte(tag)
	cipher.XORKeyStream(block[:], block[:])
	mac.Write(block[:])

	ret, out := sliceForAppend(dst, len(plaintext)+Overhead)
	out[0] = block[0]
	ciphertext := out[1 : 1+len(plaintext)]
	cipher.XORKeyStream(ciphertext, plaintext)
	mac.Write(ciphertext)
	finish(mac, len(plaintext))

	chunkMAC := mac.Sum(out[1+len(plaintext) : 1+len(plaintext)])
	e.state.advance(tag, chunkMAC)
	return ret, nil
}

// Wipe clears the key material. Later calls to Seal fail.
func (e *Encryptor) Wipe() {
	e.state.wipe()
	e.wiped = true
}

// Decryptor opens chunks of one stream in order. After any failure the
// Decryptor is unusable. Not safe for concurrent use.
type Decryptor struct {
	state  state
	broken bool
}

// NewDecryptor prepares to open the stream that produced header.
func NewDecryptor(key, header []byte) (*Decryptor, error) {
	decryptor := &Decryptor{}
	if err := decryptor.state.init(key, header); err != nil {
		return nil, err
	}
	return decryptor, nil
}

// Open authenticates and decrypts the next chunk, appends the
// plaintext to dst and returns it with the chunk's tag. Nothing is
// decrypted unless authentication succeeds. dst must not overlap chunk.
func (d *Decryptor) Open(dst, chunk []byte) ([]byte, Tag, error) {
	if d.broken {
		return nil, 0, ErrStreamClosed
	}
	if len(chunk) < Overhead {
		d.fail()
		return nil, 0, fmt.Errorf("%w: chunk of %d bytes is shorter than the %d-byte overhead",
			ErrAuthentication, len(chunk), Overhead)
	}
	messageLength := len(chunk) - Overhead
	ciphertext := chunk[1 : 1+messageLength]
	var stored [poly1305.TagSize]byte
	copy(stored[:], chunk[1+messageLength:])

	cipher, mac := d.state.authenticator()

	var block [blockSize]byte
	block[0] = chunk[0]
	cipher.XORKeyStream(block[:], block[:])
	tag := Tag(block[0])
	block[0] = chunk[0]
	mac.Write(block[:])
	mac.Write(ciphertext)
	finish(mac, messageLength)

	if !mac.Verify(stored[:]) {
		d.fail()
		return nil, 0, ErrAuthentication
	}

	ret, out := sliceForAppend(dst, messageLength)
	cipher.XORKeyStream(out, ciphertext)
	d.state.advance(tag, stored[:])
	return ret, tag, nil
}

// Wipe clears the key material. Later calls to Open fail.
func (d *Decryptor) Wipe() {
	d.fail()
}

func (d *Decryptor) fail() {
	d.state.wipe()
	d.broken = true
}

// sliceForAppend extends in by n bytes, reallocating if needed, and
// returns the whole slice and the new tail.
func sliceForAppend(in []byte, n int) (head, tail []byte) {
	if total := len(in) + n; cap(in) >= total {
		head = in[:total]
	} else {
		head = make([]byte, total)
		copy(head, in)
	}
	tail = head[len(in):]
	return
}
