// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zeebo/blake3"

	"github.com/encryptify/encryptify/lib/testutil"
)

func TestSumKnownValue(t *testing.T) {
	// BLAKE3 of the empty input, from the reference test vectors.
	const empty = "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"
	if got := Sum(nil).String(); got != empty {
		t.Errorf("Sum(nil) = %s, want %s", got, empty)
	}
}

func TestFileMatchesSum(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{"empty", nil},
		{"small", []byte("hello, vault")},
		// Larger than blake3's chunk and io.Copy's buffer.
		{"large", testutil.RandomBytes(7, 256*1024)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "file")
			if err := os.WriteFile(path, test.content, 0o600); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}

			got, err := File(path)
			if err != nil {
				t.Fatalf("File: %v", err)
			}
			if want := Digest(blake3.Sum256(test.content)); got != want {
				t.Errorf("File = %s, want %s", got, want)
			}
			if got != Sum(test.content) {
				t.Error("File and Sum disagree")
			}
		})
	}
}

func TestFileNonexistent(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatal("File should fail for a nonexistent file")
	}
}

func TestParseRoundTrip(t *testing.T) {
	original := Sum([]byte("round trip"))
	parsed, err := Parse(original.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed != original {
		t.Errorf("Parse(String()) = %s, want %s", parsed, original)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"not hex", "zz" + strings.Repeat("00", 31)},
		{"too short", strings.Repeat("ab", 16)},
		{"too long", strings.Repeat("ab", 33)},
		{"odd length", strings.Repeat("a", 63)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := Parse(test.input); err == nil {
				t.Errorf("Parse(%q) succeeded, want error", test.input)
			}
		})
	}
}
