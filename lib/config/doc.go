// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for encryptify.
//
// Configuration comes from at most one file, chosen by the --config
// flag or else the ENCRYPTIFY_CONFIG environment variable (see
// [Resolve]). With neither set, [Default] applies: the vault lives in
// the working directory. There is no
// automatic file search.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${ENCRYPTIFY_ROOT} (the resolved vault.root) and
// ${VAR:-default} patterns are expanded. No other environment
// variables override config values.
//
// This package depends on no other encryptify packages.
package config
