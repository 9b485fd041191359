package kusto

import (
	"fmt"

	"github.com/tidwall/gjson"
)

const maxErrorBody = 512

// Result is the primary table of a response.
type Result struct {
	Columns []string
	Rows    [][]gjson.Result

	index map[string]int
}

// Len returns the number of rows.
func (r *Result) Len() int {
	return len(r.Rows)
}

// String returns the value of column in row i, or "" when the column is absent
// or the value is null.
func (r *Result) String(i int, column string) string {
	c, ok := r.index[column]
	if !ok || i < 0 || i >= len(r.Rows) || c >= len(r.Rows[i]) {
		return ""
	}

	v := r.Rows[i][c]
	if v.Type == gjson.Null {
		return ""
	}

	return v.String()
}

// Require returns an error unless every column is part of the result.
func (r *Result) Require(columns ...string) error {
	for _, c := range columns {
		if _, ok := r.index[c]; !ok {
			return fmt.Errorf("result has no column %q (got %v)", c, r.Columns)
		}
	}

	return nil
}

func parseResult(payload []byte) (*Result, error) {
	if !gjson.ValidBytes(payload) {
		return nil, fmt.Errorf("response is not valid JSON")
	}

	doc := gjson.ParseBytes(payload)
	table := doc.Get("Tables.0")
	if !table.Exists() {
		return nil, fmt.Errorf("response has no result table")
	}

	result := &Result{index: map[string]int{}}
	for i, name := range table.Get("Columns.#.ColumnName").Array() {
		result.Columns = append(result.Columns, name.String())
		result.index[name.String()] = i
	}

	rows := table.Get("Rows")
	if !rows.IsArray() {
		return nil, fmt.Errorf("response result table has no rows array")
	}

	for _, row := range rows.Array() {
		if !row.IsArray() {
			return nil, fmt.Errorf("response row is not an array: %s", row.Raw)
		}

		result.Rows = append(result.Rows, row.Array())
	}

	return result, nil
}

func responseError(status int, payload []byte) error {
	if gjson.ValidBytes(payload) {
		msg := gjson.GetBytes(payload, "error.message")
		if msg.Exists() {
			return fmt.Errorf("request failed with status %d: %s", status, msg.String())
		}
	}

	body := string(payload)
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}

	return fmt.Errorf("request failed with status %d: %s", status, body)
}
