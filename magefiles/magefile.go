// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for the lander project using Mage.
//
// Usage:
//
//	mage build          Compile the lander binary to bin/
//	mage test:all       Run all tests
//	mage test:race      Run all tests with the race detector
//	mage test:cover     Write coverage to bin/coverage.out and print a summary
//	mage test:smoke     Build, then evolve a few generations in a scratch dir
//	mage lint           Check gofmt, run go vet and golangci-lint
//	mage fmt            List files gofmt would change
//	mage vet            Run go vet
//	mage clean          Remove build artifacts
//	mage install        Install lander to GOPATH/bin
//	mage stats          Print Go lines per package and the program language size
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "lander"
	binaryDir  = "bin"
	cmdDir     = "./cmd/lander"
	versionVar = "github.com/mesh-intelligence/lander/internal/cli.Version"
)

// ldflags stamps the binary with LANDER_VERSION when it is set.
func ldflags() []string {
	v := os.Getenv("LANDER_VERSION")
	if v == "" {
		return nil
	}
	return []string{"-ldflags", "-X " + versionVar + "=" + v}
}

// Build compiles the lander binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	args := append([]string{"build", "-v"}, ldflags()...)
	args = append(args, "-o", filepath.Join(binaryDir, binaryName), cmdDir)
	return sh.RunV(binGo, args...)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
