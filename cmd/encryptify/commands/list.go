// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/encryptify/encryptify/cmd/encryptify/cli"
)

// listedEntry is the --json form of a catalog entry.
type listedEntry struct {
	Name         string    `json:"name"`
	ID           string    `json:"id"`
	Compressed   bool      `json:"compressed"`
	OriginalSize int64     `json:"original_size,omitempty"`
	StoredSize   int64     `json:"stored_size,omitempty"`
	Checksum     string    `json:"checksum,omitempty"`
	AddedAt      time.Time `json:"added_at,omitzero"`
}

func listCommand(open opener, globals *globalFlags) *cli.Command {
	var outputJSON bool

	return &cli.Command{
		Name:    "list",
		Summary: "List stored files",
		Usage:   "encryptify list [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flagSet.BoolVar(&outputJSON, "json", false, "output as JSON")
			globals.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("list takes no arguments")
			}
			s, err := open()
			if err != nil {
				return err
			}
			return s.list(outputJSON)
		},
	}
}

func (s *session) list(outputJSON bool) error {
	entries := s.vault.List()

	if outputJSON {
		listed := make([]listedEntry, 0, len(entries))
		for _, entry := range entries {
			listed = append(listed, listedEntry{
				Name:         entry.Name,
				ID:           entry.ID,
				Compressed:   entry.Compressed,
				OriginalSize: entry.OriginalSize,
				StoredSize:   entry.StoredSize,
				Checksum:     entry.Checksum,
				AddedAt:      entry.AddedAt,
			})
		}
		return cli.WriteJSON(s.env.Stdout, listed)
	}

	if len(entries) == 0 {
		s.status.Info("The vault is empty")
		return nil
	}

	writer := tabwriter.NewWriter(s.env.Stdout, 2, 0, 3, ' ', 0)
	fmt.Fprintln(writer, "NAME\tCOMPRESSED\tSIZE\tSTORED\tADDED")
	for _, entry := range entries {
		added := "-"
		if !entry.AddedAt.IsZero() {
			added = entry.AddedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
			entry.Name, yesNo(entry.Compressed), size(entry.OriginalSize), size(entry.StoredSize), added)
	}
	return writer.Flush()
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

// size formats a byte count, with "-" for the unknown sizes of
// entries written before sizes were recorded.
func size(n int64) string {
	if n == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", n)
}
