package trackable

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/mickamy/trackable/internal/query"
)

// Load reads the row of m's table whose key column equals id and hydrates a
// clean instance from it. A missing row returns an error wrapping sql.ErrNoRows.
func Load[M any](ctx context.Context, db *DB, t *Type[M], id any) (*M, error) {
	stmt := query.SelectByKey(t.TableName(), db.h.cfg.KeyColumn, db.h.cfg.Placeholder)
	rows, err := db.QueryContext(ctx, stmt, id)
	if err != nil {
		return nil, fmt.Errorf("trackable: failed to load %s: %w", t.TableName(), err)
	}
	row, err := scanOne(rows)
	if err != nil {
		return nil, fmt.Errorf("trackable: failed to load %s %v: %w", t.TableName(), id, err)
	}
	return t.New(row)
}

// scanOne consumes exactly one row from *sql.Rows into a payload.
func scanOne(rows *sql.Rows) (Payload, error) {
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, sql.ErrNoRows
	}
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	return rowToPayload(cols, vals), nil
}

// rowToPayload converts a single row (columns + values) to a payload.
func rowToPayload(cols []string, vals []any) Payload {
	p := make(Payload, len(cols))
	for i, c := range cols {
		v := vals[i]
		if b, ok := v.([]byte); ok {
			// Try JSON decoding; if it fails, keep as string
			var js any
			if json.Unmarshal(b, &js) == nil {
				p[c] = js
				continue
			}
			p[c] = string(b)
			continue
		}
		p[c] = v
	}
	return p
}

// bindValue converts an attribute value into a driver argument. Scalars pass
// through; composite values are stored as JSON.
func bindValue(v any) (any, error) {
	switch v.(type) {
	case nil, driver.Valuer, time.Time, []byte:
		return v, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return v, nil
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, nil
		}
		return bindValue(rv.Elem().Interface())
	case reflect.Slice, reflect.Map:
		if rv.IsNil() {
			return nil, nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
