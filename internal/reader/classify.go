package reader

import (
	pgquery "github.com/pganalyze/pg_query_go/v6"
)

// classifyHasResult parses sql with pg_query_go's real libpq_query bindings
// and reports whether the statement returns rows: a plain SELECT, or any
// DML statement carrying a RETURNING clause. This replaces a brittle
// "does the SQL start with SELECT" regex with an actual parse of the
// statement, the grounding spec.md §4.3 needs to tell a void query (no
// result columns) apart from a row-returning one before the preparer ever
// talks to the database.
func classifyHasResult(sql string) (bool, error) {
	result, err := pgquery.Parse(sql)
	if err != nil {
		return false, err
	}

	if len(result.Stmts) == 0 {
		return false, nil
	}

	stmt := result.Stmts[len(result.Stmts)-1].Stmt
	if stmt == nil {
		return false, nil
	}

	switch {
	case stmt.GetSelectStmt() != nil:
		return true, nil
	case stmt.GetInsertStmt() != nil:
		return len(stmt.GetInsertStmt().GetReturningList()) > 0, nil
	case stmt.GetUpdateStmt() != nil:
		return len(stmt.GetUpdateStmt().GetReturningList()) > 0, nil
	case stmt.GetDeleteStmt() != nil:
		return len(stmt.GetDeleteStmt().GetReturningList()) > 0, nil
	default:
		return false, nil
	}
}
