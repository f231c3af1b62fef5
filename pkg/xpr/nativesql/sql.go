// Package nativesql exposes SQL databases to expression programs as
// native calls under the `db` receiver:
//
//	db.query("select n from t", driver: "sqlite", dsn: "file.db")
//	db.exec("insert into t values (1)")
//
// Rows come back as a list of row lists; NULL columns come back as
// placeholders. Connections are pooled per driver+dsn and closed after
// a period of disuse.
package nativesql

import (
	"database/sql"
	"strings"
	"time"

	"github.com/fmahebert/eckit/pkg/xpr/errors"
	"github.com/fmahebert/eckit/pkg/xpr/evaluator"
)

const defaultTTL = 5 * time.Minute

// Provider owns the connection cache and default connection settings.
type Provider struct {
	defaultDriver string
	defaultDSN    string
	conns         *cache[*sql.DB]
}

func NewProvider(driver, dsn string) *Provider {
	return &Provider{
		defaultDriver: driver,
		defaultDSN:    dsn,
		conns: newCache(defaultTTL, func(db *sql.DB) {
			db.Close()
		}),
	}
}

// Register installs the db.query and db.exec natives.
func (p *Provider) Register(natives *evaluator.NativeTable) {
	natives.Register("db", "query", p.query)
	natives.Register("db", "exec", p.exec)
}

// Close releases all pooled connections.
func (p *Provider) Close() {
	p.conns.close()
}

func (p *Provider) open(attrs *evaluator.Properties) (*sql.DB, error) {
	driver := attrs.GetString("driver", p.defaultDriver)
	dsn := attrs.GetString("dsn", p.defaultDSN)

	name, ok := driverName(driver)
	if !ok {
		return nil, errors.New("DB-0001", map[string]any{
			"Driver": driver, "GoError": "unknown driver",
		})
	}
	key := name + "|" + dsn
	if db, ok := p.conns.get(key); ok {
		return db, nil
	}
	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, errors.New("DB-0001", map[string]any{
			"Driver": driver, "GoError": err.Error(),
		})
	}
	// An in-memory sqlite database exists per connection; pin the pool
	// to one connection so statements see the same database.
	if name == "sqlite" && strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.New("DB-0001", map[string]any{
			"Driver": driver, "GoError": err.Error(),
		})
	}
	p.conns.set(key, db)
	return db, nil
}

// query runs a statement and returns its rows as a list of row lists.
func (p *Provider) query(ctx *evaluator.Scope, attrs *evaluator.Properties, args []evaluator.Value) (evaluator.Value, error) {
	stmt, params, err := statementArgs("db.query", args)
	if err != nil {
		return nil, err
	}
	db, err := p.open(attrs)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(stmt, params...)
	if err != nil {
		return nil, errors.New("DB-0002", map[string]any{"GoError": err.Error()})
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.New("DB-0002", map[string]any{"GoError": err.Error()})
	}

	limit := attrs.GetInt("limit", -1)
	var out []evaluator.Value
	for rows.Next() {
		if limit >= 0 && int64(len(out)) >= limit {
			break
		}
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.New("DB-0003", map[string]any{"GoError": err.Error()})
		}
		row := make([]evaluator.Value, len(cols))
		for i, cell := range raw {
			v, err := fromColumn(cell)
			if err != nil {
				return nil, err
			}
			row[i] = v
		}
		out = append(out, &evaluator.List{Elements: row})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.New("DB-0002", map[string]any{"GoError": err.Error()})
	}
	return &evaluator.List{Elements: out}, nil
}

// exec runs a statement and returns the affected row count.
func (p *Provider) exec(ctx *evaluator.Scope, attrs *evaluator.Properties, args []evaluator.Value) (evaluator.Value, error) {
	stmt, params, err := statementArgs("db.exec", args)
	if err != nil {
		return nil, err
	}
	db, err := p.open(attrs)
	if err != nil {
		return nil, err
	}
	res, err := db.Exec(stmt, params...)
	if err != nil {
		return nil, errors.New("DB-0004", map[string]any{"GoError": err.Error()})
	}
	n, err := res.RowsAffected()
	if err != nil {
		n = 0
	}
	return evaluator.NewInteger(n), nil
}

// statementArgs splits the leading SQL string from bind parameters.
func statementArgs(name string, args []evaluator.Value) (string, []any, error) {
	if len(args) == 0 {
		return "", nil, errors.New("ARITY-0001", map[string]any{
			"Function": name, "Want": 1, "Got": 0,
		})
	}
	stmt, ok := args[0].(*evaluator.String)
	if !ok {
		return "", nil, errors.New("TYPE-0002", map[string]any{
			"Function": name, "Index": 0,
			"Expected": "a string", "Got": string(args[0].Kind()),
		})
	}
	params := make([]any, 0, len(args)-1)
	for _, a := range args[1:] {
		params = append(params, evaluator.ToNative(a))
	}
	return stmt.Value, params, nil
}

// fromColumn converts a scanned column. NULL becomes a placeholder.
func fromColumn(cell any) (evaluator.Value, error) {
	if cell == nil {
		return evaluator.NewUndef(), nil
	}
	return evaluator.FromNative(cell)
}
