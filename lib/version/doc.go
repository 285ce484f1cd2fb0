// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build version information for the
// encryptify binary.
//
// Values are injected at build time via -ldflags:
//
//	go build -ldflags "-X github.com/encryptify/encryptify/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// When GitCommit is not injected, the VCS stamp that the Go toolchain
// embeds in module builds is used instead.
package version
