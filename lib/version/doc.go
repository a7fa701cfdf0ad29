// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for the alines
// binary.
//
// Four package-level variables are injected at build time via
// -ldflags -X:
//
//   - [GitCommit] -- short git SHA of the build
//   - [GitDirty] -- "true" if there were uncommitted changes
//   - [BuildTime] -- UTC timestamp of the build
//   - [Version] -- semantic version string (set manually for releases)
//
// When GitCommit was not injected, the VCS stamp the Go toolchain
// embeds (debug.ReadBuildInfo) fills it and GitDirty in, so "go
// install" builds still identify their revision.
//
//	go build -ldflags "-X github.com/JerwuQu/alines-multi/lib/version.GitCommit=$(git rev-parse --short HEAD)"
package version
