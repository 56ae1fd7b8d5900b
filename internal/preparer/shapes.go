package preparer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fontana-sql/fontana/internal/registrar"
)

// canonicalRowKey hashes a row's fields as an unordered multiset of
// (name, pg qualified type, nullable) - two queries whose columns are a
// permutation of one another produce the same key, satisfying spec.md §3's
// "share exactly one PreparedRow" invariant.
func canonicalRowKey(fields []RowField) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fmt.Sprintf("%s|%s|%v", f.Name, f.Type.QualifiedPGName(), f.IsNullable)
	}

	sort.Strings(parts)

	return strings.Join(parts, ";")
}

func canonicalParamsKey(fields []PreparedParam) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.Name + "|" + f.Type.QualifiedPGName()
	}

	sort.Strings(parts)

	return strings.Join(parts, ";")
}

// candidateRow/candidateParams are one query's shape before dedup against
// its sibling queries in the module.
type candidateRow struct {
	queryName string
	queryIdx  int
	fields    []RowField
}

type candidateParams struct {
	queryName string
	queryIdx  int
	fields    []PreparedParam
}

// groupRows buckets candidates by canonical key and names each resulting
// shape after the alphabetically first query that introduces it (spec.md
// §3 "naming collisions across queries are resolved by deriving the shape
// name from the alphabetically first query that introduces it"), breaking
// ties between distinct shapes that happen to pascal-case to the same name
// by suffixing a small integer (spec.md §4.2 "Shape naming").
func groupRows(candidates []candidateRow) (map[string]*PreparedRow, map[int]struct {
	name string
	idx  []int
}) {
	byKey := make(map[string][]candidateRow)
	keyOrder := make([]string, 0)

	for _, c := range candidates {
		key := canonicalRowKey(c.fields)
		if _, ok := byKey[key]; !ok {
			keyOrder = append(keyOrder, key)
		}

		byKey[key] = append(byKey[key], c)
	}

	rows := make(map[string]*PreparedRow)
	perQuery := make(map[int]struct {
		name string
		idx  []int
	})

	taken := make(map[string]bool)

	for _, key := range keyOrder {
		group := byKey[key]

		// declFirst anchors the canonical field order (spec.md §4.2 step 3:
		// "declaration order of the first insertion"); alphaFirst only
		// supplies the shape's name (spec.md §3: "alphabetically first
		// query that introduces it"). These are two different candidates
		// whenever the alphabetically-first query isn't the one declared
		// first, and the row's Fields must always come from declFirst -
		// buildIndexMap below is computed relative to it.
		declFirst := group[0]

		alphaFirst := group[0]
		for _, c := range group[1:] {
			if c.queryName < alphaFirst.queryName {
				alphaFirst = c
			}
		}

		name := freshShapeName(taken, alphaFirst.queryName)
		taken[name] = true

		isCopy := true
		for _, f := range declFirst.fields {
			if !f.Type.IsCopy {
				isCopy = false
				break
			}
		}

		rows[name] = &PreparedRow{Name: name, Fields: declFirst.fields, IsCopy: isCopy}

		for _, c := range group {
			perQuery[c.queryIdx] = struct {
				name string
				idx  []int
			}{name: name, idx: buildIndexMap(declFirst.fields, c.fields)}
		}
	}

	return rows, perQuery
}

func groupParams(candidates []candidateParams) (map[string]*PreparedParams, map[int]string) {
	byKey := make(map[string][]candidateParams)
	keyOrder := make([]string, 0)

	for _, c := range candidates {
		key := canonicalParamsKey(c.fields)
		if _, ok := byKey[key]; !ok {
			keyOrder = append(keyOrder, key)
		}

		byKey[key] = append(byKey[key], c)
	}

	params := make(map[string]*PreparedParams)
	perQuery := make(map[int]string)

	taken := make(map[string]bool)

	for _, key := range keyOrder {
		group := byKey[key]

		// Same declFirst/alphaFirst split as groupRows: naming and
		// canonical field order come from different candidates.
		declFirst := group[0]

		alphaFirst := group[0]
		for _, c := range group[1:] {
			if c.queryName < alphaFirst.queryName {
				alphaFirst = c
			}
		}

		name := freshShapeName(taken, alphaFirst.queryName)
		taken[name] = true

		var queries []int
		for _, c := range group {
			queries = append(queries, c.queryIdx)
			perQuery[c.queryIdx] = name
		}

		params[name] = &PreparedParams{Name: name, Fields: declFirst.fields, Queries: queries}
	}

	return params, perQuery
}

// buildIndexMap maps each field of canonical (stored) order to its physical
// position in actual (this query's declaration) order, so two queries
// selecting the same columns in different orders can still share one row
// struct (spec.md §3 PreparedQuery.column_index_map).
func buildIndexMap(canonical []RowField, actual []RowField) []int {
	indexMap := make([]int, len(canonical))
	used := make([]bool, len(actual))

	for i, cf := range canonical {
		for j, af := range actual {
			if used[j] {
				continue
			}

			if cf.Name == af.Name && cf.Type == af.Type && cf.IsNullable == af.IsNullable {
				indexMap[i] = j
				used[j] = true

				break
			}
		}
	}

	return indexMap
}

// freshShapeName derives a shape name from the pascal-case of queryName,
// suffixing a small integer on collision with an already-assigned shape
// name - spec.md §4.2 "Shape naming".
func freshShapeName(taken map[string]bool, queryName string) string {
	base := registrar.UpperCamel(queryName)

	if !taken[base] {
		return base
	}

	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s%d", base, i)
		if !taken[candidate] {
			return candidate
		}
	}
}
