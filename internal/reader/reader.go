package reader

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fontana-sql/fontana/internal/cliutil"
)

// ReadDir walks path (one level, same as the teacher's parseDirectory
// helper in internal/cli/helpers.go) collecting one Module per ".sql"
// file, sorted by file name so module emission order is deterministic
// across runs (spec.md §4.3 "Determinism").
func ReadDir(path string) ([]Module, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, cliutil.WrapError("read queries directory", err)
	}

	var names []string

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".sql" {
			continue
		}

		names = append(names, e.Name())
	}

	sort.Strings(names)

	modules := make([]Module, 0, len(names))

	for _, name := range names {
		mod, err := ReadFile(filepath.Join(path, name))
		if err != nil {
			return nil, err
		}

		modules = append(modules, mod)
	}

	return modules, nil
}

// ReadFile parses a single query file into a Module named after the file
// stem (spec.md §GLOSSARY "Module": one input file's worth of related
// queries).
func ReadFile(path string) (Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Module{}, cliutil.WrapError("read query file "+path, err)
	}

	blocks, err := splitBlocks(string(data))
	if err != nil {
		return Module{}, cliutil.WrapError("split query file "+path, err)
	}

	moduleName := strings.TrimSuffix(filepath.Base(path), ".sql")

	mod := Module{Name: moduleName}
	seen := make(map[string]bool)

	for _, b := range blocks {
		if b.name == "" {
			if strings.TrimSpace(b.body) == "" {
				continue
			}

			return Module{}, &MalformedQueryFileError{File: path, Reason: "SQL body with no preceding `--! name` directive"}
		}

		if seen[b.name] {
			return Module{}, &MalformedQueryFileError{File: path, Reason: "duplicate query name " + b.name}
		}

		seen[b.name] = true

		sql, paramNames := rewritePlaceholders(b.body)

		hasResult, err := classifyHasResult(sql)
		if err != nil {
			return Module{}, cliutil.WrapError("parse query "+b.name+" in "+path, err)
		}

		mod.Queries = append(mod.Queries, Query{
			Name:          b.name,
			SQL:           sql,
			ParamNames:    paramNames,
			RowNameHint:   b.rowHint,
			ParamNameHint: b.paramHint,
			HasResult:     hasResult,
		})
	}

	return mod, nil
}
