// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
)

// ReadFromPath reads a password from a file, or the first line of
// stdin if path is "-". Only trailing line terminators are removed:
// spaces are legitimate password characters. Returns an error if
// nothing remains.
func ReadFromPath(path string) (*Buffer, error) {
	var data []byte

	if path == "-" {
		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("reading stdin: %w", err)
			}
			return nil, fmt.Errorf("stdin is empty")
		}
		// The scanner reuses its internal buffer, so copy out before
		// clearing it below.
		data = bytes.Clone(scanner.Bytes())
		Zero(scanner.Bytes())
	} else {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}

	password := bytes.TrimRight(data, "\r\n")
	if len(password) == 0 {
		Zero(data)
		return nil, fmt.Errorf("password is empty")
	}

	buffer, err := NewFromBytes(password)
	Zero(data)
	if err != nil {
		return nil, err
	}
	return buffer, nil
}
