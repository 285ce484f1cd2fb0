// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

// Command encryptify is a password-protected file vault.
package main

import (
	"fmt"
	"os"

	"github.com/encryptify/encryptify/cmd/encryptify/cli"
	"github.com/encryptify/encryptify/cmd/encryptify/commands"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own output return an ExitError
		// with the desired exit code. Don't print a redundant "error:"
		// line for those.
		if _, ok := err.(interface{ ExitCode() int }); !ok {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(cli.ExitCodeFor(err))
	}
}

func run() error {
	return commands.Root().Execute(os.Args[1:])
}
