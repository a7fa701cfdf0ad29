// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the alines server.
//
// Configuration comes from at most one file, named by the --config flag
// or the ALINES_CONFIG environment variable (see [ResolvePath]). There
// is no discovery and no search path: without either, the server runs
// on [Default] plus its command-line flags.
//
// Files ending in .json or .jsonc are JSON with comments and trailing
// commas; everything else is YAML. Both decode into the same [Config]
// with the same keys.
//
// ${VAR} and ${VAR:-default} are expanded in socket_dir after loading.
// No other field is expanded, and no environment variable overrides a
// value from the file.
//
// This package depends on no other alines packages.
package config
