// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"io/fs"

	"github.com/encryptify/encryptify/cmd/encryptify/cli"
	"github.com/encryptify/encryptify/lib/envelope"
	"github.com/encryptify/encryptify/lib/vault"
)

// classify wraps a library error in the ToolError category that
// decides the exit status. ToolErrors pass through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var toolErr *cli.ToolError
	if errors.As(err, &toolErr) {
		return err
	}

	switch {
	case errors.Is(err, vault.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return cli.NotFound("%w", err)
	case errors.Is(err, envelope.ErrAuthentication):
		return cli.Forbidden("%w", err).
			WithHint("The password is wrong or the stored file was modified.")
	case errors.Is(err, vault.ErrChecksumMismatch):
		return cli.Forbidden("%w", err)
	default:
		return cli.Internal("%w", err)
	}
}
