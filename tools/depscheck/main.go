package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
)

type packageInfo struct {
	ImportPath string
	Imports    []string
}

// rule forbids packages under Scope from importing anything under a
// Forbidden prefix.
type rule struct {
	Scope     string
	Forbidden []string
}

// Round logic stays headless: no transport, no concrete level.
var rules = []rule{
	{
		Scope: "titan-siege/server/internal/gamemode",
		Forbidden: []string{
			"titan-siege/server/internal/net",
			"titan-siege/server/internal/scene",
			"titan-siege/server/internal/sim",
			"github.com/gorilla/websocket",
		},
	},
	{
		Scope: "titan-siege/server/internal/detection",
		Forbidden: []string{
			"titan-siege/server/internal/net",
			"titan-siege/server/internal/scene",
			"titan-siege/server/internal/gamemode",
			"github.com/gorilla/websocket",
		},
	},
	{
		Scope: "titan-siege/server/internal/scene",
		Forbidden: []string{
			"titan-siege/server/internal/net",
			"titan-siege/server/internal/sim",
		},
	},
}

func main() {
	cmd := exec.Command("go", "list", "-json", "./internal/...")
	cmd.Env = os.Environ()
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			os.Stderr.Write(exitErr.Stderr)
		}
		fmt.Fprintf(os.Stderr, "depscheck: failed to list packages: %v\n", err)
		os.Exit(1)
	}

	pkgs, err := decodePackages(bytes.NewReader(output))
	if err != nil {
		fmt.Fprintf(os.Stderr, "depscheck: failed to decode package info: %v\n", err)
		os.Exit(1)
	}

	if violations := findViolations(pkgs, rules); len(violations) > 0 {
		fmt.Fprintln(os.Stderr, "depscheck: found forbidden imports:")
		for _, violation := range violations {
			fmt.Fprintf(os.Stderr, "  %s\n", violation)
		}
		os.Exit(1)
	}
}

func decodePackages(r io.Reader) ([]packageInfo, error) {
	decoder := json.NewDecoder(r)
	var pkgs []packageInfo
	for {
		var pkg packageInfo
		if err := decoder.Decode(&pkg); err != nil {
			if errors.Is(err, io.EOF) {
				return pkgs, nil
			}
			return nil, err
		}
		pkgs = append(pkgs, pkg)
	}
}

func findViolations(pkgs []packageInfo, rules []rule) []string {
	var violations []string
	for _, pkg := range pkgs {
		for _, r := range rules {
			if !underPath(pkg.ImportPath, r.Scope) {
				continue
			}
			for _, imp := range pkg.Imports {
				for _, forbidden := range r.Forbidden {
					if underPath(imp, forbidden) {
						violations = append(violations, fmt.Sprintf("%s -> %s", pkg.ImportPath, imp))
					}
				}
			}
		}
	}
	sort.Strings(violations)
	return violations
}

func underPath(importPath, prefix string) bool {
	return importPath == prefix || strings.HasPrefix(importPath, prefix+"/")
}
