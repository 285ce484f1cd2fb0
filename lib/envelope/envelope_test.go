// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

package envelope

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/encryptify/encryptify/lib/secret"
	"github.com/encryptify/encryptify/lib/secretstream"
	"github.com/encryptify/encryptify/lib/testutil"
)

// testKDF keeps Argon2 cheap enough to run hundreds of derivations.
var testKDF = KDFParams{Time: 1, MemoryKiB: 64, Threads: 1}

func testCodec() *Codec {
	return &Codec{KDF: testKDF}
}

func TestRoundTripSizes(t *testing.T) {
	codec := testCodec()
	password := testutil.Password(t, "correct-horse")

	for _, size := range []int{0, 1, 17, ChunkSize - 1, ChunkSize, ChunkSize + 1, 2 * ChunkSize, 10000} {
		plaintext := testutil.RandomBytes(uint64(size), size)

		sealed, err := codec.Encrypt(plaintext, password)
		if err != nil {
			t.Fatalf("Encrypt(%d bytes): %v", size, err)
		}
		if got, want := int64(len(sealed)), SealedSize(int64(size)); got != want {
			t.Errorf("size %d: envelope is %d bytes, SealedSize says %d", size, got, want)
		}

		opened, err := codec.Decrypt(sealed, password)
		if err != nil {
			t.Fatalf("Decrypt(%d bytes): %v", size, err)
		}
		if !bytes.Equal(opened, plaintext) {
			t.Errorf("size %d: round trip mismatch", size)
		}
	}
}

func TestChunkLayout(t *testing.T) {
	codec := testCodec()
	password := testutil.Password(t, "correct-horse")

	tests := []struct {
		size       int
		chunkSizes []int
	}{
		{0, []int{17}},
		{ChunkSize, []int{ChunkSize + 17, 17}},
		{10000, []int{ChunkSize + 17, ChunkSize + 17, 10000 - 2*ChunkSize + 17}},
	}
	for _, test := range tests {
		sealed, err := codec.Encrypt(make([]byte, test.size), password)
		if err != nil {
			t.Fatal(err)
		}
		total := PreambleSize
		for _, size := range test.chunkSizes {
			total += size
		}
		if len(sealed) != total {
			t.Errorf("size %d: envelope is %d bytes, want %d", test.size, len(sealed), total)
		}
	}
}

// Scenario: 10,000 bytes under "correct-horse" open only with that
// password.
func TestCorrectAndWrongPassword(t *testing.T) {
	codec := testCodec()
	plaintext := testutil.RandomBytes(3, 10000)

	sealed, err := codec.Encrypt(plaintext, testutil.Password(t, "correct-horse"))
	if err != nil {
		t.Fatal(err)
	}

	opened, err := codec.Decrypt(sealed, testutil.Password(t, "correct-horse"))
	testutil.RequireNoError(t, err)
	if !bytes.Equal(opened, plaintext) {
		t.Fatal("plaintext mismatch with the correct password")
	}

	opened, err = codec.Decrypt(sealed, testutil.Password(t, "wrong-password"))
	testutil.RequireErrorIs(t, err, ErrAuthentication)
	if opened != nil {
		t.Fatal("wrong password produced output")
	}

	var streamed bytes.Buffer
	err = codec.DecryptStream(&streamed, bytes.NewReader(sealed), testutil.Password(t, "wrong-password"))
	testutil.RequireErrorIs(t, err, ErrAuthentication)
	if streamed.Len() != 0 {
		t.Fatalf("wrong password streamed %d bytes", streamed.Len())
	}
}

func TestFreshSaltAndHeader(t *testing.T) {
	codec := testCodec()
	password := testutil.Password(t, "correct-horse")

	first, err := codec.Encrypt([]byte("same plaintext"), password)
	testutil.RequireNoError(t, err)
	second, err := codec.Encrypt([]byte("same plaintext"), password)
	testutil.RequireNoError(t, err)

	if bytes.Equal(first[:SaltSize], second[:SaltSize]) {
		t.Error("salt repeated across encryptions")
	}
	if bytes.Equal(first[SaltSize:PreambleSize], second[SaltSize:PreambleSize]) {
		t.Error("header repeated across encryptions")
	}
}

func TestTamperAnyByte(t *testing.T) {
	codec := testCodec()
	password := testutil.Password(t, "correct-horse")

	sealed, err := codec.Encrypt(testutil.RandomBytes(4, 100), password)
	testutil.RequireNoError(t, err)

	for position := range sealed {
		tampered := bytes.Clone(sealed)
		tampered[position] ^= 0x01

		opened, err := codec.Decrypt(tampered, password)
		if !errors.Is(err, ErrAuthentication) {
			t.Fatalf("flipped byte %d: expected ErrAuthentication, got %v", position, err)
		}
		if opened != nil {
			t.Fatalf("flipped byte %d: output returned", position)
		}
	}
}

func TestTamperLaterChunk(t *testing.T) {
	codec := testCodec()
	password := testutil.Password(t, "correct-horse")

	sealed, err := codec.Encrypt(testutil.RandomBytes(5, 3*ChunkSize), password)
	testutil.RequireNoError(t, err)
	sealed[PreambleSize+2*maxSealedChunk+10] ^= 0x40

	var out bytes.Buffer
	err = codec.DecryptStream(&out, bytes.NewReader(sealed), password)
	testutil.RequireErrorIs(t, err, ErrAuthentication)
	if out.Len() != 2*ChunkSize {
		t.Errorf("expected the two verified chunks before the failure, got %d bytes", out.Len())
	}
}

// Scenario: an envelope missing its final chunk is rejected, never
// returned as partial plaintext.
func TestMissingFinalChunk(t *testing.T) {
	codec := testCodec()
	password := testutil.Password(t, "correct-horse")

	for _, size := range []int{10000, 2 * ChunkSize} {
		sealed, err := codec.Encrypt(testutil.RandomBytes(6, size), password)
		testutil.RequireNoError(t, err)

		lastChunk := (size%ChunkSize + secretstream.Overhead)
		opened, err := codec.Decrypt(sealed[:len(sealed)-lastChunk], password)
		testutil.RequireErrorIs(t, err, ErrTruncated, "size %d", size)
		if opened != nil {
			t.Fatalf("size %d: partial plaintext returned", size)
		}
	}
}

func TestTruncatedInsideChunk(t *testing.T) {
	codec := testCodec()
	password := testutil.Password(t, "correct-horse")

	sealed, err := codec.Encrypt(testutil.RandomBytes(7, 5000), password)
	testutil.RequireNoError(t, err)

	tests := []struct {
		name   string
		length int
		target error
	}{
		{"inside final chunk", len(sealed) - 5, ErrAuthentication},
		{"shorter than overhead", PreambleSize + maxSealedChunk + 10, ErrTruncated},
		{"only preamble", PreambleSize, ErrTruncated},
		{"inside full chunk", PreambleSize + 100, ErrAuthentication},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := codec.Decrypt(sealed[:test.length], password)
			testutil.RequireErrorIs(t, err, test.target)
		})
	}
}

func TestShortPreamble(t *testing.T) {
	codec := testCodec()
	password := testutil.Password(t, "correct-horse")

	for _, length := range []int{0, 1, SaltSize, PreambleSize - 1} {
		_, err := codec.Decrypt(make([]byte, length), password)
		testutil.RequireErrorIs(t, err, ErrFormat, "length %d", length)
	}
}

// sealFullFinal builds an envelope whose final chunk carries a full
// ChunkSize of plaintext, which EncryptStream never emits but other
// libsodium writers may.
func sealFullFinal(t *testing.T, password *secret.Buffer, plaintext []byte) []byte {
	t.Helper()
	salt := bytes.Repeat([]byte{0x33}, SaltSize)
	key, err := DeriveKey(password, salt, testKDF)
	testutil.RequireNoError(t, err)
	defer key.Close()

	encryptor, header, err := secretstream.NewEncryptor(key.Bytes())
	testutil.RequireNoError(t, err)
	sealed := append(salt, header...)
	sealed, err = encryptor.Seal(sealed, plaintext, secretstream.TagFinal)
	testutil.RequireNoError(t, err)
	return sealed
}

func TestFullSizedFinalChunk(t *testing.T) {
	codec := testCodec()
	password := testutil.Password(t, "correct-horse")
	plaintext := testutil.RandomBytes(9, ChunkSize)

	sealed := sealFullFinal(t, password, plaintext)
	opened, err := codec.Decrypt(sealed, password)
	testutil.RequireNoError(t, err)
	if !bytes.Equal(opened, plaintext) {
		t.Fatal("plaintext mismatch")
	}
}

func TestTrailingData(t *testing.T) {
	codec := testCodec()
	password := testutil.Password(t, "correct-horse")

	t.Run("after full final chunk", func(t *testing.T) {
		sealed := sealFullFinal(t, password, testutil.RandomBytes(10, ChunkSize))
		opened, err := codec.Decrypt(append(sealed, 0x00), password)
		testutil.RequireErrorIs(t, err, ErrFormat)
		if opened != nil {
			t.Fatal("output returned despite trailing data")
		}
	})

	// Bytes after a short final chunk read as part of that chunk, so
	// its MAC no longer verifies.
	t.Run("after short final chunk", func(t *testing.T) {
		for _, size := range []int{10, ChunkSize} {
			sealed, err := codec.Encrypt(testutil.RandomBytes(8, size), password)
			testutil.RequireNoError(t, err)

			opened, err := codec.Decrypt(append(sealed, 0x00), password)
			testutil.RequireErrorIs(t, err, ErrAuthentication, "size %d", size)
			if opened != nil {
				t.Fatalf("size %d: output returned despite trailing data", size)
			}
		}
	})
}

func TestDifferentKDFParamsFail(t *testing.T) {
	password := testutil.Password(t, "correct-horse")
	sealed, err := testCodec().Encrypt([]byte("parameters matter"), password)
	testutil.RequireNoError(t, err)

	other := &Codec{KDF: KDFParams{Time: 2, MemoryKiB: 64, Threads: 1}}
	_, err = other.Decrypt(sealed, password)
	testutil.RequireErrorIs(t, err, ErrAuthentication)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrNoProgress }

func TestStreamIOErrors(t *testing.T) {
	codec := testCodec()
	password := testutil.Password(t, "correct-horse")

	err := codec.EncryptStream(failingWriter{}, bytes.NewReader([]byte("x")), password)
	testutil.RequireErrorIs(t, err, io.ErrClosedPipe)

	err = codec.EncryptStream(io.Discard, failingReader{}, password)
	testutil.RequireErrorIs(t, err, io.ErrNoProgress)

	err = codec.DecryptStream(io.Discard, failingReader{}, password)
	testutil.RequireErrorIs(t, err, io.ErrNoProgress)
}

func TestSealedSize(t *testing.T) {
	tests := []struct {
		size int64
		want int64
	}{
		{0, PreambleSize + 17},
		{1, PreambleSize + 18},
		{ChunkSize, PreambleSize + ChunkSize + 17 + 17},
		{10000, PreambleSize + 10000 + 3*17},
	}
	for _, test := range tests {
		if got := SealedSize(test.size); got != test.want {
			t.Errorf("SealedSize(%d) = %d, want %d", test.size, got, test.want)
		}
	}
}
