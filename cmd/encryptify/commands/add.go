// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"github.com/spf13/pflag"

	"github.com/encryptify/encryptify/cmd/encryptify/cli"
)

func addCommand(open opener, globals *globalFlags) *cli.Command {
	var passwordFile, name string

	return &cli.Command{
		Name:    "add",
		Summary: "Compress, encrypt and store a file",
		Description: `Compress, encrypt and store a file in the vault.

The file is recorded under its path as given unless --name is set.
Adding a name that already exists replaces the stored file. The
password is prompted for twice on a terminal.`,
		Usage: "encryptify add <file> [flags]",
		Examples: []cli.Example{
			{
				Description: "Add a file, prompting for the password",
				Command:     "encryptify add notes.txt",
			},
			{
				Description: "Add a file non-interactively",
				Command:     "encryptify add notes.txt --password-file ~/.vault-password",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("add", pflag.ContinueOnError)
			flagSet.StringVar(&passwordFile, "password-file", "", "read the password from a file (- for stdin)")
			flagSet.StringVar(&name, "name", "", "store under this name instead of the path")
			globals.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("usage: add <file>")
			}
			s, err := open()
			if err != nil {
				return err
			}
			return s.add(args[0], name, passwordFile)
		},
	}
}

func (s *session) add(sourcePath, name, passwordFile string) error {
	if name == "" {
		name = sourcePath
	}

	passwords := s.env.passwords(passwordFile)
	password, err := passwords.Read(passwords.Interactive())
	if err != nil {
		return err
	}
	defer password.Close()

	entry, err := s.vault.AddAs(name, sourcePath, password)
	if err != nil {
		return classify(err)
	}

	if entry.Compressed {
		s.status.Success("Added %s (compressed %d → %d bytes)", entry.Name, entry.OriginalSize, entry.StoredSize)
	} else {
		s.status.Success("Added %s (%d bytes, stored uncompressed)", entry.Name, entry.OriginalSize)
	}
	return nil
}
