package natives

import (
	"database/sql"
	"fmt"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"lumen/internal/value"
)

// dbNatives wires database/sql in, fronting four blank-imported
// drivers, the way the teacher's internal/database package shapes
// query results for script consumption but generalized across engines
// instead of being sqlite-only (SPEC_FULL.md domain stack).
func dbNatives() []value.NativeDef {
	return []value.NativeDef{
		{
			Name:  "db_open",
			Arity: 2,
			Fn:    dbOpen,
		},
		{
			Name:  "db_exec",
			Arity: 2,
			Fn:    dbExec,
		},
		{
			Name:  "db_query",
			Arity: 2,
			Fn:    dbQuery,
		},
		{
			Name:  "db_close",
			Arity: 1,
			Fn:    dbClose,
		},
	}
}

func asDBHandle(native string, v value.Value) (*sql.DB, error) {
	if !v.IsObject() {
		return nil, fmt.Errorf("native %q expects a database handle", native)
	}
	h, ok := v.AsObject().(*value.HandleObject)
	if !ok || h.HandleKind != "db" {
		return nil, fmt.Errorf("native %q expects a database handle", native)
	}
	return h.Resource.(*sql.DB), nil
}

func dbOpen(args []value.Value) (value.Value, error) {
	driver, err := wantString("db_open", args, 0)
	if err != nil {
		return value.Nil(), err
	}
	dsn, err := wantString("db_open", args, 1)
	if err != nil {
		return value.Nil(), err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return value.Nil(), err
	}
	return value.Obj(value.NewHandle("db", db)), nil
}

func dbExec(args []value.Value) (value.Value, error) {
	db, err := asDBHandle("db_exec", args[0])
	if err != nil {
		return value.Nil(), err
	}
	query, err := wantString("db_exec", args, 1)
	if err != nil {
		return value.Nil(), err
	}
	result, err := db.Exec(query)
	if err != nil {
		return value.Nil(), err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return value.Nil(), err
	}
	return value.Num(float64(affected)), nil
}

func dbQuery(args []value.Value) (value.Value, error) {
	db, err := asDBHandle("db_query", args[0])
	if err != nil {
		return value.Nil(), err
	}
	query, err := wantString("db_query", args, 1)
	if err != nil {
		return value.Nil(), err
	}
	rows, err := db.Query(query)
	if err != nil {
		return value.Nil(), err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return value.Nil(), err
	}

	var out []value.Value
	for rows.Next() {
		raw := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return value.Nil(), err
		}
		vals := make([]value.Value, len(cols))
		for i, c := range raw {
			vals[i] = sqlValueToLumen(c)
		}
		out = append(out, value.Obj(value.NewMap(cols, vals)))
	}
	if err := rows.Err(); err != nil {
		return value.Nil(), err
	}
	return value.Obj(value.NewArray(out)), nil
}

func sqlValueToLumen(raw interface{}) value.Value {
	switch v := raw.(type) {
	case nil:
		return value.Nil()
	case int64:
		return value.Num(float64(v))
	case float64:
		return value.Num(v)
	case bool:
		return value.Bool(v)
	case []byte:
		return value.Obj(value.NewString(string(v)))
	case string:
		return value.Obj(value.NewString(v))
	default:
		return value.Obj(value.NewString(fmt.Sprint(v)))
	}
}

func dbClose(args []value.Value) (value.Value, error) {
	db, err := asDBHandle("db_close", args[0])
	if err != nil {
		return value.Nil(), err
	}
	return value.Nil(), db.Close()
}
