package persist

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"i18n-templates/internal/locale"

	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5/pgxpool"
)

func testPostgresGateway(t *testing.T, url string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	g := NewPostgresGateway(pool)
	if err := g.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}

	path := fmt.Sprintf("test-locales/%d/es.json", time.Now().UnixNano())
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM i18n_documents WHERE path = $1`, path)
	})

	if _, err := g.ReadDictionary(ctx, path); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ReadDictionary() before write: got %v, want ErrNotFound", err)
	}

	for _, dict := range []locale.Dictionary{
		{"greet:name": "World"},
		{"greet:name": "Mundo", "greet:bye": "Adiós"},
	} {
		if err := g.WriteJSON(ctx, path, dict); err != nil {
			t.Fatalf("WriteJSON() error = %v", err)
		}
		got, err := g.ReadDictionary(ctx, path)
		if err != nil {
			t.Fatalf("ReadDictionary() error = %v", err)
		}
		if diff := cmp.Diff(dict, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}
