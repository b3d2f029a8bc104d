// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	exists bool
	err    error
}

func (row fakeRow) Scan(dest ...any) error {
	if row.err != nil {
		return row.err
	}
	*dest[0].(*bool) = row.exists
	return nil
}

type fakeQuerier struct {
	present map[string]bool
	err     error
}

func (q fakeQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	return fakeRow{exists: q.present[args[0].(string)], err: q.err}
}

/*
TestMissingRelations verifies the schema check reports absent relations in order.
*/
func TestMissingRelations(t *testing.T) {
	db := fakeQuerier{present: map[string]bool{
		"public.profiles": true,
		"public.posts":    true,
	}}

	missing, err := MissingRelations(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, []string{"public.comments", "public.posts_with_author", "public.comments_with_author"}, missing)

	_, err = MissingRelations(context.Background(), fakeQuerier{err: errors.New("boom")})
	assert.ErrorContains(t, err, "boom")
}
