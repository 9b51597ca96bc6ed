// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mesh-intelligence/lander/pkg/ast"
)

// packageStats counts the Go lines of one package directory.
type packageStats struct {
	Prod  int `json:"prod"`
	Test  int `json:"test"`
	Files int `json:"files"`
}

// Stats prints one JSON record with Go lines per package under cmd/,
// internal/ and pkg/, their totals, and the size of the program language:
// builder names, sensors and commands.
func Stats() error {
	packages, total, err := packageLines("cmd", "internal", "pkg")
	if err != nil {
		return err
	}
	names := make([]string, 0, len(packages))
	for name := range packages {
		names = append(names, name)
	}
	sort.Strings(names)

	record := struct {
		Packages map[string]*packageStats `json:"packages"`
		Order    []string                 `json:"order"`
		Total    packageStats             `json:"total"`
		Builders int                      `json:"builders"`
		Sensors  int                      `json:"sensors"`
		Commands int                      `json:"commands"`
	}{
		Packages: packages,
		Order:    names,
		Total:    total,
		Builders: len(ast.BuilderNames()),
		Sensors:  len(ast.AllSensors),
		Commands: len(ast.AllCommands),
	}
	line, err := json.Marshal(record)
	if err != nil {
		return err
	}
	fmt.Println(string(line))
	return nil
}

// packageLines counts Go lines per package directory under roots. Missing
// roots are skipped.
func packageLines(roots ...string) (map[string]*packageStats, packageStats, error) {
	packages := map[string]*packageStats{}
	var total packageStats
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") {
				return err
			}
			lines, err := countLines(path)
			if err != nil {
				return err
			}
			dir := filepath.ToSlash(filepath.Dir(path))
			ps := packages[dir]
			if ps == nil {
				ps = &packageStats{}
				packages[dir] = ps
			}
			ps.Files++
			total.Files++
			if strings.HasSuffix(path, "_test.go") {
				ps.Test += lines
				total.Test += lines
			} else {
				ps.Prod += lines
				total.Prod += lines
			}
			return nil
		})
		if err != nil && !os.IsNotExist(err) {
			return nil, packageStats{}, err
		}
	}
	return packages, total, nil
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}
