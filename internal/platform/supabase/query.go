// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	acceptSingle       = "application/vnd.pgrst.object+json"
	preferReturnRows   = "return=representation"
	preferExactCount   = "count=exact"
	headerPrefer       = "Prefer"
	headerContentRange = "Content-Range"
)

// Query is a single REST request under construction. Builder methods mutate
// and return the receiver; a Query is not safe for reuse after [Query.Do].
type Query struct {
	client  *Client
	table   string
	method  string
	columns string
	params  url.Values
	orders  []string
	body    any
	single  bool
	count   bool
}

// # Verbs

// Select sets the column list (PostgREST syntax, including embedded resources).
func (query *Query) Select(columns string) *Query {
	query.method = http.MethodGet
	query.columns = columns
	return query
}

// Returning sets the column list of the rows a write sends back. Writes
// return every column when it is not called.
func (query *Query) Returning(columns string) *Query {
	query.columns = columns
	return query
}

// Insert sends row (a struct or map) as a new record.
func (query *Query) Insert(row any) *Query {
	query.method = http.MethodPost
	query.body = row
	return query
}

// Update applies patch to every row matching the filters.
func (query *Query) Update(patch any) *Query {
	query.method = http.MethodPatch
	query.body = patch
	return query
}

// Delete removes every row matching the filters.
func (query *Query) Delete() *Query {
	query.method = http.MethodDelete
	return query
}

// # Filters

// Eq filters on column = value.
func (query *Query) Eq(column string, value any) *Query {
	query.params.Add(column, "eq."+fmt.Sprint(value))
	return query
}

// OrIlike matches rows where any of columns contains term, case-insensitively.
// The term is quoted so that reserved characters cannot alter the filter.
func (query *Query) OrIlike(term string, columns ...string) *Query {
	quoted := quoteValue("*" + term + "*")
	clauses := make([]string, 0, len(columns))
	for _, column := range columns {
		clauses = append(clauses, column+".ilike."+quoted)
	}
	query.params.Add("or", "("+strings.Join(clauses, ",")+")")
	return query
}

// # Modifiers

// Order appends a sort key.
func (query *Query) Order(column string, ascending bool) *Query {
	direction := "desc"
	if ascending {
		direction = "asc"
	}
	query.orders = append(query.orders, column+"."+direction)
	return query
}

// Limit caps the number of rows returned.
func (query *Query) Limit(n int) *Query {
	query.params.Set("limit", strconv.Itoa(n))
	return query
}

// Range restricts results to the inclusive row window [from, to].
func (query *Query) Range(from, to int) *Query {
	query.params.Set("offset", strconv.Itoa(from))
	query.params.Set("limit", strconv.Itoa(to-from+1))
	return query
}

// Single expects exactly one row and decodes it as an object instead of an array.
func (query *Query) Single() *Query {
	query.single = true
	return query
}

// # Execution

// Do executes the query and decodes the response into dest (may be nil).
func (query *Query) Do(ctx context.Context, dest any) error {
	_, err := query.execute(ctx, dest)
	return err
}

// DoCount is [Query.Do] that also returns the exact total row count for the filters.
func (query *Query) DoCount(ctx context.Context, dest any) (int, error) {
	query.count = true
	return query.execute(ctx, dest)
}

// Exec runs a write and returns how many rows it affected. Rows hidden by
// row-level security are silently unaffected, so zero is a normal result.
func (query *Query) Exec(ctx context.Context) (int, error) {
	var rows []json.RawMessage
	if _, err := query.execute(ctx, &rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (query *Query) execute(ctx context.Context, dest any) (int, error) {
	params := url.Values{}
	for key, values := range query.params {
		params[key] = append([]string(nil), values...)
	}

	columns := query.columns
	if columns == "" {
		columns = "*"
	}
	params.Set("select", columns)
	if len(query.orders) > 0 {
		params.Set("order", strings.Join(query.orders, ","))
	}

	headers := http.Header{}
	var prefer []string
	if query.method != http.MethodGet {
		prefer = append(prefer, preferReturnRows)
	}
	if query.count {
		prefer = append(prefer, preferExactCount)
	}
	if len(prefer) > 0 {
		headers.Set(headerPrefer, strings.Join(prefer, ","))
	}
	if query.single {
		headers.Set("Accept", acceptSingle)
	}

	total := -1
	err := query.client.send(ctx, call{
		resource:  query.table,
		operation: operationName(query.method),
		method:    query.method,
		path:      restPath + query.table,
		query:     params,
		headers:   headers,
		body:      query.body,
		bearer:    query.client.accessToken,
		onResponse: func(header http.Header) {
			total = parseTotal(header.Get(headerContentRange))
		},
	}, dest)

	return total, err
}

func operationName(method string) string {
	switch method {
	case http.MethodPost:
		return "insert"
	case http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return "select"
	}
}

// parseTotal reads the total from a Content-Range header such as "0-9/42" or "*/0".
func parseTotal(contentRange string) int {
	_, total, found := strings.Cut(contentRange, "/")
	if !found || total == "*" {
		return -1
	}
	n, err := strconv.Atoi(total)
	if err != nil {
		return -1
	}
	return n
}

// quoteValue wraps a filter operand in double quotes, escaping quotes and backslashes.
func quoteValue(value string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(value)
	return `"` + escaped + `"`
}
