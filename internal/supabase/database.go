package supabase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/Brettk80/new2025/internal/models"
	postgrest "github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

// Operation performs exactly one platform call and returns its raw JSON result.
type Operation func(client *supabase.Client) ([]byte, error)

// Where maps columns to values. Every entry becomes one equality filter and
// all of them are ANDed. A nil value matches NULL.
type Where map[models.Column]any

type Order struct {
	Column     models.Column
	Descending bool
}

type SelectOptions struct {
	// Columns restricts the returned columns; empty selects all of them.
	Columns []models.Column
	Where   Where
	Order   *Order
	// Limit caps the number of rows when greater than zero.
	Limit int
	// Single asks for exactly one row; zero or several rows are an error.
	Single bool
}

type Returning int

const (
	// ReturnDefault is representation for insert and update, minimal for delete.
	ReturnDefault Returning = iota
	ReturnRepresentation
	ReturnMinimal
)

type WriteOptions struct {
	Returning Returning
}

func (o WriteOptions) returning(def Returning) string {
	r := o.Returning
	if r == ReturnDefault {
		r = def
	}
	if r == ReturnMinimal {
		return "minimal"
	}
	return "representation"
}

// Query runs op through the shared funnel: an error result or an empty
// payload is logged, notified and returned as *Error; otherwise the payload
// is decoded into T.
func Query[T any](c *Client, op Operation) (T, error) {
	return query[T](c, "query", op, true)
}

func query[T any](c *Client, name string, op Operation, wantData bool) (T, error) {
	var out T

	started := time.Now()
	data, err := op(c.Supabase)
	if err == nil && wantData && isEmpty(data) {
		err = ErrNoData
	}
	if err == nil && wantData {
		if decodeErr := json.Unmarshal(data, &out); decodeErr != nil {
			err = fmt.Errorf("failed to decode response: %w", decodeErr)
		}
	}
	observe("database", name, started, err)

	if err != nil {
		return out, c.report(name, err, "")
	}
	return out, nil
}

// Insert writes one row. With ReturnMinimal nothing is requested back and
// the returned slice is nil.
func Insert[R, I, U any](c *Client, table models.Table[R, I, U], data I, opts WriteOptions) ([]R, error) {
	return insert(c, table, data, opts)
}

// InsertMany writes rows in a single request.
func InsertMany[R, I, U any](c *Client, table models.Table[R, I, U], rows []I, opts WriteOptions) ([]R, error) {
	return insert(c, table, rows, opts)
}

func insert[R, I, U any](c *Client, table models.Table[R, I, U], value any, opts WriteOptions) ([]R, error) {
	returning := opts.returning(ReturnRepresentation)
	name := "insert " + table.String()
	return query[[]R](c, name, func(client *supabase.Client) ([]byte, error) {
		body, _, err := client.From(table.String()).
			Insert(value, false, "", returning, "").
			Execute()
		return body, err
	}, returning == "representation")
}

// Select reads rows from table. With Single set the result holds exactly one row.
func Select[R, I, U any](c *Client, table models.Table[R, I, U], opts SelectOptions) ([]R, error) {
	name := "select " + table.String()

	columns := "*"
	if len(opts.Columns) > 0 {
		names := make([]string, len(opts.Columns))
		for i, col := range opts.Columns {
			names[i] = string(col)
		}
		columns = strings.Join(names, ",")
	}
	if err := checkColumns(table, opts.Columns, opts.Where, opts.Order); err != nil {
		return nil, c.report(name, err, "")
	}

	op := func(client *supabase.Client) ([]byte, error) {
		q := client.From(table.String()).Select(columns, "", false)
		q = applyWhere(q, opts.Where)
		if opts.Order != nil {
			q = q.Order(string(opts.Order.Column), &postgrest.OrderOpts{Ascending: !opts.Order.Descending})
		}
		if opts.Limit > 0 {
			q = q.Limit(opts.Limit, "")
		}
		if opts.Single {
			q = q.Single()
		}
		body, _, err := q.Execute()
		return body, err
	}

	if opts.Single {
		row, err := query[R](c, name, op, true)
		if err != nil {
			return nil, err
		}
		return []R{row}, nil
	}
	return query[[]R](c, name, op, true)
}

// SelectOne is Select with Single set, returning the row itself.
func SelectOne[R, I, U any](c *Client, table models.Table[R, I, U], opts SelectOptions) (R, error) {
	opts.Single = true
	rows, err := Select(c, table, opts)
	if err != nil {
		var zero R
		return zero, err
	}
	return rows[0], nil
}

// Update patches the rows matching match. Returning defaults to representation.
func Update[R, I, U any](c *Client, table models.Table[R, I, U], data U, match Where, opts WriteOptions) ([]R, error) {
	name := "update " + table.String()
	if err := checkMatch(table, match); err != nil {
		return nil, c.report(name, err, "")
	}

	returning := opts.returning(ReturnRepresentation)
	return query[[]R](c, name, func(client *supabase.Client) ([]byte, error) {
		q := client.From(table.String()).Update(data, returning, "")
		body, _, err := applyWhere(q, match).Execute()
		return body, err
	}, returning == "representation")
}

// Delete removes the rows matching match. Returning defaults to minimal.
func Delete[R, I, U any](c *Client, table models.Table[R, I, U], match Where, opts WriteOptions) ([]R, error) {
	name := "delete " + table.String()
	if err := checkMatch(table, match); err != nil {
		return nil, c.report(name, err, "")
	}

	returning := opts.returning(ReturnMinimal)
	return query[[]R](c, name, func(client *supabase.Client) ([]byte, error) {
		q := client.From(table.String()).Delete(returning, "")
		body, _, err := applyWhere(q, match).Execute()
		return body, err
	}, returning == "representation")
}

func applyWhere(q *postgrest.FilterBuilder, where Where) *postgrest.FilterBuilder {
	for column, value := range where {
		if s, isNull := filterValue(value); isNull {
			q = q.Is(string(column), "null")
		} else {
			q = q.Eq(string(column), s)
		}
	}
	return q
}

// filterValue renders v the way PostgREST expects it in a filter.
func filterValue(v any) (string, bool) {
	if v == nil {
		return "", true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", true
		}
		v = rv.Elem().Interface()
	}

	switch val := v.(type) {
	case string:
		return val, false
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano), false
	case fmt.Stringer:
		return val.String(), false
	case bool:
		return strconv.FormatBool(val), false
	default:
		return fmt.Sprint(val), false
	}
}

func checkMatch[R, I, U any](table models.Table[R, I, U], match Where) error {
	if len(match) == 0 {
		return ErrEmptyMatch
	}
	return checkColumns(table, nil, match, nil)
}

func checkColumns[R, I, U any](table models.Table[R, I, U], columns []models.Column, where Where, order *Order) error {
	for _, col := range columns {
		if !table.HasColumn(col) {
			return fmt.Errorf("%w %q on table %s", ErrUnknownColumn, col, table)
		}
	}
	for col := range where {
		if !table.HasColumn(col) {
			return fmt.Errorf("%w %q on table %s", ErrUnknownColumn, col, table)
		}
	}
	if order != nil && !table.HasColumn(order.Column) {
		return fmt.Errorf("%w %q on table %s", ErrUnknownColumn, order.Column, table)
	}
	return nil
}

func isEmpty(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
