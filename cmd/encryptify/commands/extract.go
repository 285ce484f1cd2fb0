// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"

	"github.com/spf13/pflag"

	"github.com/encryptify/encryptify/cmd/encryptify/cli"
	"github.com/encryptify/encryptify/lib/envelope"
)

// maxPasswordAttempts bounds retries at a terminal prompt.
const maxPasswordAttempts = 3

func extractCommand(open opener, globals *globalFlags) *cli.Command {
	var passwordFile, outputDir string

	return &cli.Command{
		Name:    "extract",
		Summary: "Decrypt a stored file",
		Description: `Decrypt a stored file and write it as extracted_<name>.

The output lands in --output-dir, or vault.extract_dir from the
config. Nothing is written unless the password is right and the
plaintext matches the checksum recorded when it was added.`,
		Usage: "encryptify extract <name> [flags]",
		Examples: []cli.Example{
			{
				Description: "Extract into the current directory",
				Command:     "encryptify extract notes.txt",
			},
			{
				Description: "Extract into a scratch directory",
				Command:     "encryptify extract notes.txt -o /tmp",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("extract", pflag.ContinueOnError)
			flagSet.StringVar(&passwordFile, "password-file", "", "read the password from a file (- for stdin)")
			flagSet.StringVarP(&outputDir, "output-dir", "o", "", "directory for the extracted file")
			globals.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("usage: extract <name>")
			}
			s, err := open()
			if err != nil {
				return err
			}
			return s.extract(args[0], outputDir, passwordFile)
		},
	}
}

func (s *session) extract(name, outputDir, passwordFile string) error {
	if _, ok := s.vault.Get(name); !ok {
		return cli.NotFound("%q is not in the vault", name).
			WithHint("Run 'encryptify list' to see stored names.")
	}
	if outputDir == "" {
		outputDir = s.config.Vault.ExtractDir
	}

	passwords := s.env.passwords(passwordFile)
	attempts := 1
	if passwords.Interactive() {
		attempts = maxPasswordAttempts
	}

	for attempt := 1; ; attempt++ {
		password, err := passwords.Read(false)
		if err != nil {
			return err
		}
		path, err := s.vault.Extract(name, password, outputDir)
		password.Close()

		if err == nil {
			s.status.Success("Extracted %s to %s", name, path)
			return nil
		}
		if !errors.Is(err, envelope.ErrAuthentication) || attempt >= attempts {
			return classify(err)
		}
		s.logger.Debug("extract authentication failed", "name", name, "attempt", attempt)
		s.status.Error("Wrong password, try again (%d of %d)", attempt, attempts)
	}
}
