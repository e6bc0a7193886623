package query_test

import (
	"testing"

	"github.com/mickamy/trackable/internal/query"
)

func TestUpdate(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name  string
		table string
		cols  []string
		key   string
		p     query.Placeholder
		want  string
	}{
		{
			name:  "single column",
			table: "articles",
			cols:  []string{"title"},
			key:   "id",
			p:     query.Dollar,
			want:  `UPDATE "articles" SET "title" = $1 WHERE "id" = $2`,
		},
		{
			name:  "schema qualified",
			table: "public.articles",
			cols:  []string{"title", "views"},
			key:   "id",
			p:     query.Dollar,
			want:  `UPDATE "public"."articles" SET "title" = $1, "views" = $2 WHERE "id" = $3`,
		},
		{
			name:  "question placeholders",
			table: "articles",
			cols:  []string{"published", "score"},
			key:   "uid",
			p:     query.Question,
			want:  `UPDATE "articles" SET "published" = ?, "score" = ? WHERE "uid" = ?`,
		},
		{
			name:  "needs escaping",
			table: `"Sales"."Order Detail"`,
			cols:  []string{`odd"name`},
			key:   "id",
			p:     query.Dollar,
			want:  `UPDATE "Sales"."Order Detail" SET "odd""name" = $1 WHERE "id" = $2`,
		},
		{
			name:  "no columns",
			table: "articles",
			key:   "id",
			want:  "",
		},
		{
			name: "empty table",
			cols: []string{"title"},
			key:  "id",
			want: "",
		},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := query.Update(tc.table, tc.cols, tc.key, tc.p)
			if got != tc.want {
				t.Fatalf("Update(%q, %#v, %q) = %q, want %q", tc.table, tc.cols, tc.key, got, tc.want)
			}
		})
	}
}

func TestSelectByKey(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name  string
		table string
		p     query.Placeholder
		want  string
	}{
		{name: "dollar", table: "articles", p: query.Dollar, want: `SELECT * FROM "articles" WHERE "id" = $1`},
		{name: "question", table: "public.articles", p: query.Question, want: `SELECT * FROM "public"."articles" WHERE "id" = ?`},
		{name: "empty table", table: " ", p: query.Dollar, want: ""},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := query.SelectByKey(tc.table, "id", tc.p)
			if got != tc.want {
				t.Fatalf("SelectByKey(%q) = %q, want %q", tc.table, got, tc.want)
			}
		})
	}
}
