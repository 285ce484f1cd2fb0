// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "encryptify",
		Subcommands: []*Command{
			{
				Name: "add",
				Run: func(args []string) error {
					called = "add"
					return nil
				},
			},
			{
				Name: "list",
				Run: func(args []string) error {
					called = "list"
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"list"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "list" {
		t.Errorf("dispatched to %q, want %q", called, "list")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var receivedArgs []string

	root := &Command{
		Name: "encryptify",
		Subcommands: []*Command{
			{
				Name: "config",
				Subcommands: []*Command{
					{
						Name: "show",
						Run: func(args []string) error {
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute([]string{"config", "show", "extra-arg"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "extra-arg" {
		t.Errorf("args = %v, want [extra-arg]", receivedArgs)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var outputDir string
	var force bool
	var receivedArgs []string

	command := &Command{
		Name: "extract",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("extract", pflag.ContinueOnError)
			flagSet.StringVarP(&outputDir, "output-dir", "o", ".", "output directory")
			flagSet.BoolVar(&force, "force", false, "overwrite")
			return flagSet
		},
		Run: func(args []string) error {
			receivedArgs = args
			return nil
		},
	}

	if err := command.Execute([]string{"-o", "/tmp/out", "--force", "notes.txt"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if outputDir != "/tmp/out" {
		t.Errorf("output-dir = %q, want /tmp/out", outputDir)
	}
	if !force {
		t.Error("force = false, want true")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "notes.txt" {
		t.Errorf("args = %v, want [notes.txt]", receivedArgs)
	}
}

func TestCommand_Execute_UnknownCommandSuggests(t *testing.T) {
	var help bytes.Buffer
	root := &Command{
		Name:       "encryptify",
		HelpOutput: &help,
		Subcommands: []*Command{
			{Name: "extract", Run: func([]string) error { return nil }},
			{Name: "remove", Run: func([]string) error { return nil }},
		},
	}

	err := root.Execute([]string{"extarct"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), `did you mean "extract"`) {
		t.Errorf("error = %q, want suggestion for extract", err)
	}
	var toolErr *ToolError
	if !errors.As(err, &toolErr) || toolErr.Category != CategoryValidation {
		t.Errorf("error category = %v, want validation", err)
	}

	err = root.Execute([]string{"zzzzzzzz"})
	if err == nil || strings.Contains(err.Error(), "did you mean") {
		t.Errorf("distant command error = %v, want no suggestion", err)
	}
}

func TestCommand_Execute_UnknownFlagSuggests(t *testing.T) {
	command := &Command{
		Name: "add",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("add", pflag.ContinueOnError)
			flagSet.String("password-file", "", "read password from file")
			return flagSet
		},
		Run: func([]string) error { return nil },
	}

	err := command.Execute([]string{"--pasword-file", "pw.txt"})
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if !strings.Contains(err.Error(), "did you mean --password-file") {
		t.Errorf("error = %q, want suggestion for --password-file", err)
	}
}

func TestCommand_Execute_SubcommandRequired(t *testing.T) {
	var help bytes.Buffer
	root := &Command{
		Name:       "encryptify",
		HelpOutput: &help,
		Subcommands: []*Command{
			{Name: "list", Summary: "List vault entries", Run: func([]string) error { return nil }},
		},
	}

	err := root.Execute(nil)
	if err == nil || !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("Execute(nil) = %v, want subcommand required", err)
	}
	if !strings.Contains(help.String(), "List vault entries") {
		t.Errorf("help output missing subcommand summary:\n%s", help.String())
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	var help bytes.Buffer
	root := &Command{
		Name:       "encryptify",
		HelpOutput: &help,
		Subcommands: []*Command{
			{
				Name:        "add",
				Summary:     "Add a file",
				Description: "Encrypt a file into the vault.",
				Usage:       "encryptify add <file> [flags]",
				Examples: []Example{
					{Description: "Add a document", Command: "encryptify add report.pdf"},
				},
				Flags: func() *pflag.FlagSet {
					flagSet := pflag.NewFlagSet("add", pflag.ContinueOnError)
					flagSet.String("password-file", "", "read password from file")
					return flagSet
				},
				Run: func([]string) error { return nil },
			},
		},
	}

	if err := root.Execute([]string{"add", "--help"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	output := help.String()
	for _, want := range []string{
		"Encrypt a file into the vault.",
		"encryptify add <file> [flags]",
		"--password-file",
		"# Add a document",
		"encryptify add report.pdf",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q:\n%s", want, output)
		}
	}
}

func TestCommand_FullName(t *testing.T) {
	var got string
	var sub *Command
	sub = &Command{
		Name: "show",
		Run: func([]string) error {
			got = sub.fullName()
			return nil
		},
	}
	root := &Command{
		Name:        "encryptify",
		Subcommands: []*Command{{Name: "config", Subcommands: []*Command{sub}}},
	}

	if err := root.Execute([]string{"config", "show"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if got != "encryptify config show" {
		t.Errorf("fullName() = %q, want %q", got, "encryptify config show")
	}
}
