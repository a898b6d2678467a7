package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/carlfriend1995-alt/OptionScope/internal/domain/model"
)

// stores runs fn against every Store implementation.
func stores(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Helper()

	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryStore())
	})

	t.Run("sqlite", func(t *testing.T) {
		ctx := context.Background()
		s, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "nested", "deployments.db"))
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		t.Cleanup(func() { _ = s.Close() })
		fn(t, s)
	})
}

func deployment(id string, started time.Time, status model.Status) model.Deployment {
	d := model.Deployment{ID: id, Platform: "vercel", StartedAt: started.UTC()}
	d.Finish(status, "https://"+id+".vercel.app", "", started.Add(90*time.Second))
	return d
}

func TestStore_RecordAndGet(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		base := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)
		want := deployment("dep-1", base, model.StatusSucceeded)

		if err := s.Record(ctx, want); err != nil {
			t.Fatalf("record: %v", err)
		}

		got, err := s.Get(ctx, "dep-1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.ID != want.ID || got.Platform != want.Platform || got.Status != want.Status || got.URL != want.URL {
			t.Errorf("got %+v, want %+v", got, want)
		}
		if !got.StartedAt.Equal(want.StartedAt) || !got.FinishedAt.Equal(want.FinishedAt) {
			t.Errorf("times did not round-trip: got %v..%v want %v..%v", got.StartedAt, got.FinishedAt, want.StartedAt, want.FinishedAt)
		}
		if got.Duration() != 90*time.Second {
			t.Errorf("expected 90s duration, got %v", got.Duration())
		}
	})
}

func TestStore_RecordReplacesSameID(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		d := model.NewDeployment("heroku", time.Now())
		if err := s.Record(ctx, d); err != nil {
			t.Fatalf("record: %v", err)
		}

		d.Finish(model.StatusFailed, "", "git push rejected", time.Now())
		if err := s.Record(ctx, d); err != nil {
			t.Fatalf("record again: %v", err)
		}

		all, err := s.List(ctx, 10)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(all) != 1 {
			t.Fatalf("expected 1 row, got %d", len(all))
		}
		if all[0].Status != model.StatusFailed || all[0].Message != "git push rejected" {
			t.Errorf("row not updated: %+v", all[0])
		}
	})
}

func TestStore_GetUnknown(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		_, err := s.Get(context.Background(), "missing")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestStore_ListNewestFirst(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 5; i++ {
			d := deployment(fmt.Sprintf("dep-%d", i), base.Add(time.Duration(i)*time.Hour), model.StatusSucceeded)
			if err := s.Record(ctx, d); err != nil {
				t.Fatalf("record %d: %v", i, err)
			}
		}

		got, err := s.List(ctx, 3)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		want := []string{"dep-4", "dep-3", "dep-2"}
		if len(got) != len(want) {
			t.Fatalf("expected %d rows, got %d", len(want), len(got))
		}
		for i, id := range want {
			if got[i].ID != id {
				t.Errorf("position %d: expected %s, got %s", i, id, got[i].ID)
			}
		}

		all, err := s.List(ctx, MaxLimit)
		if err != nil {
			t.Fatalf("list all: %v", err)
		}
		if len(all) != 5 {
			t.Errorf("expected 5 rows, got %d", len(all))
		}
	})
}

func TestStore_ListInvalidLimit(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		for _, limit := range []int{0, -1, MaxLimit + 1} {
			if _, err := s.List(context.Background(), limit); !errors.Is(err, ErrInvalidLimit) {
				t.Errorf("limit %d: expected ErrInvalidLimit, got %v", limit, err)
			}
		}
	})
}

func TestStore_ListEmpty(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		got, err := s.List(context.Background(), 5)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no rows, got %d", len(got))
		}
	})
}

func TestStore_ConcurrentRecord(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		var wg sync.WaitGroup
		errs := make(chan error, 20)
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs <- s.Record(ctx, deployment(fmt.Sprintf("c-%02d", i), time.Now(), model.StatusSucceeded))
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			if err != nil {
				t.Fatalf("concurrent record: %v", err)
			}
		}

		all, err := s.List(ctx, 50)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(all) != 20 {
			t.Errorf("expected 20 rows, got %d", len(all))
		}
	})
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := OpenSQLite(ctx, path, WithBusyTimeout(time.Second), WithMaxOpenConns(1))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Record(ctx, deployment("keep", time.Now(), model.StatusManual)); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = s.Close() }()

	got, err := s.Get(ctx, "keep")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if got.Status != model.StatusManual {
		t.Errorf("expected manual, got %s", got.Status)
	}
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewMemoryStore()
	if err := s.Record(ctx, deployment("x", time.Now(), model.StatusSucceeded)); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSQLiteStore_PathWithURIReservedCharacters(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "deploys?mode=ro#1 x")
	path := filepath.Join(dir, "history.db")

	s, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Record(ctx, deployment("odd-path", time.Now(), model.StatusSucceeded)); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected database at %s: %v", path, err)
	}

	s, err = OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = s.Close() }()
	if _, err := s.Get(ctx, "odd-path"); err != nil {
		t.Errorf("get after reopen: %v", err)
	}
}

func TestSQLiteStore_DSNEscapesPath(t *testing.T) {
	s := &SQLiteStore{busyTimeout: time.Second}
	got := s.dsn("/tmp/a?b#c/history.db")
	want := "file:/tmp/a%3Fb%23c/history.db?_pragma=busy_timeout(1000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	if got != want {
		t.Errorf("dsn = %q, want %q", got, want)
	}
}
