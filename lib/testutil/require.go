// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"testing"

	"github.com/encryptify/encryptify/lib/secret"
)

// RequireNoError fails the test if err is non-nil.
//
//	testutil.RequireNoError(t, err, "compressing %d bytes", len(data))
func RequireNoError(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, err error, msgAndArgs ...any) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", formatMessage(msgAndArgs), err)
	}
}

// RequireErrorIs fails the test unless errors.Is(err, target).
//
//	testutil.RequireErrorIs(t, err, envelope.ErrAuthentication, "wrong password")
func RequireErrorIs(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, err, target error, msgAndArgs ...any) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("%s: expected error wrapping %q, got %v", formatMessage(msgAndArgs), target, err)
	}
}

// Password returns a secret buffer holding text. The buffer is closed
// when the test completes.
func Password(t testing.TB, text string) *secret.Buffer {
	t.Helper()
	buffer, err := secret.NewFromBytes([]byte(text))
	if err != nil {
		t.Fatalf("creating password buffer: %v", err)
	}
	t.Cleanup(func() { buffer.Close() })
	return buffer
}

// DirNames returns the sorted entry names of directory.
func DirNames(t testing.TB, directory string) []string {
	t.Helper()
	entries, err := os.ReadDir(directory)
	if err != nil {
		t.Fatalf("reading directory %s: %v", directory, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names
}

// formatMessage formats optional message arguments into a string.
// Accepts either a single string or a format string followed by args.
func formatMessage(msgAndArgs []any) string {
	if len(msgAndArgs) == 0 {
		return "(no message)"
	}
	if len(msgAndArgs) == 1 {
		if s, ok := msgAndArgs[0].(string); ok {
			return s
		}
		return fmt.Sprintf("%v", msgAndArgs[0])
	}
	if format, ok := msgAndArgs[0].(string); ok {
		return fmt.Sprintf(format, msgAndArgs[1:]...)
	}
	return fmt.Sprintf("%v", msgAndArgs)
}
