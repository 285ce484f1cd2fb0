// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/encryptify/encryptify/lib/secret"
)

// PasswordReader obtains the vault password for a command. The source
// is chosen in this order:
//
//   - File, when set (the --password-file flag; "-" means stdin)
//   - a no-echo prompt, when Input is a terminal
//   - one line from Lines, otherwise
//
// Lines exists so a non-interactive caller (the shell reading commands
// from a pipe) can share a single buffered reader for commands and
// passwords.
type PasswordReader struct {
	// File is the path passed via --password-file, or "".
	File string

	// Input is the terminal candidate. Defaults to os.Stdin.
	Input *os.File

	// Lines is the buffered reader used when Input is not a terminal.
	// Defaults to a reader over Input.
	Lines *bufio.Reader

	// Output receives prompts. Defaults to os.Stderr.
	Output io.Writer
}

// Interactive reports whether passwords come from a terminal prompt,
// which is the only source where retrying makes sense.
func (r *PasswordReader) Interactive() bool {
	if r.File != "" {
		return false
	}
	input := r.input()
	return term.IsTerminal(int(input.Fd()))
}

// Read returns the password in a secret.Buffer the caller must Close.
// With confirm set, a terminal prompt asks twice and fails validation
// if the entries differ. An empty password is a validation error.
func (r *PasswordReader) Read(confirm bool) (*secret.Buffer, error) {
	if r.File != "" {
		password, err := secret.ReadFromPath(r.File)
		if err != nil {
			return nil, Validation("reading password: %w", err)
		}
		return password, nil
	}

	if r.Interactive() {
		return r.prompt(confirm)
	}
	return r.readLine()
}

func (r *PasswordReader) prompt(confirm bool) (*secret.Buffer, error) {
	password, err := r.promptOnce("Password: ")
	if err != nil {
		return nil, err
	}
	if !confirm {
		return password, nil
	}

	again, err := r.promptOnce("Confirm password: ")
	if err != nil {
		password.Close()
		return nil, err
	}
	defer again.Close()
	if !password.Equal(again) {
		password.Close()
		return nil, Validation("passwords do not match")
	}
	return password, nil
}

func (r *PasswordReader) promptOnce(label string) (*secret.Buffer, error) {
	output := r.output()
	fmt.Fprint(output, label)
	raw, err := term.ReadPassword(int(r.input().Fd()))
	fmt.Fprintln(output)
	if err != nil {
		return nil, Internal("reading password from terminal: %w", err)
	}
	if len(raw) == 0 {
		return nil, Validation("password cannot be empty")
	}
	password, err := secret.NewFromBytes(raw)
	if err != nil {
		return nil, Internal("protecting password: %w", err)
	}
	return password, nil
}

func (r *PasswordReader) readLine() (*secret.Buffer, error) {
	line, err := r.lines().ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, Internal("reading password: %w", err)
	}
	trimmed := trimLineEnding(line)
	if len(trimmed) == 0 {
		secret.Zero(line)
		return nil, Validation("password cannot be empty")
	}
	password, err := secret.NewFromBytes(trimmed)
	secret.Zero(line)
	if err != nil {
		return nil, Internal("protecting password: %w", err)
	}
	return password, nil
}

func (r *PasswordReader) input() *os.File {
	if r.Input != nil {
		return r.Input
	}
	return os.Stdin
}

func (r *PasswordReader) lines() *bufio.Reader {
	if r.Lines == nil {
		r.Lines = bufio.NewReader(r.input())
	}
	return r.Lines
}

func (r *PasswordReader) output() io.Writer {
	if r.Output != nil {
		return r.Output
	}
	return os.Stderr
}

// trimLineEnding strips one trailing "\n" or "\r\n".
func trimLineEnding(line []byte) []byte {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
		if n := len(line); n > 0 && line[n-1] == '\r' {
			line = line[:n-1]
		}
	}
	return line
}
