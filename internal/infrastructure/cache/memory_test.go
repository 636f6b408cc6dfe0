package cache

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/99minutos/invoice-dashboard/internal/core/ports"
)

func TestMemoryPageCache_GetSet(t *testing.T) {
	c := NewMemoryPageCache(time.Minute)
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, "/dashboard/invoices?page=1"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Set(ctx, "/dashboard/invoices?page=1", []byte(`{"page":1}`), 0); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	body, ok, err := c.Get(ctx, "/dashboard/invoices?page=1")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if string(body) != `{"page":1}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestMemoryPageCache_RevalidateByPrefix(t *testing.T) {
	c := NewMemoryPageCache(time.Minute)
	ctx := context.Background()

	_ = c.Set(ctx, "/dashboard/invoices?page=1", []byte("a"), 0)
	_ = c.Set(ctx, "/dashboard/invoices?page=2&query=lee", []byte("b"), 0)
	_ = c.Set(ctx, "/dashboard/customers", []byte("c"), 0)

	if err := c.Revalidate(ctx, "/dashboard/invoices"); err != nil {
		t.Fatalf("Revalidate returned error: %v", err)
	}

	for _, key := range []string{"/dashboard/invoices?page=1", "/dashboard/invoices?page=2&query=lee"} {
		if _, ok, _ := c.Get(ctx, key); ok {
			t.Fatalf("expected %s to be dropped", key)
		}
	}
	if _, ok, _ := c.Get(ctx, "/dashboard/customers"); !ok {
		t.Fatalf("expected unrelated entry to survive")
	}
}

func TestMemoryPageCache_Expiry(t *testing.T) {
	c := NewMemoryPageCache(10 * time.Millisecond)
	ctx := context.Background()

	_ = c.Set(ctx, "/dashboard/invoices", []byte("a"), 0)
	time.Sleep(30 * time.Millisecond)

	if _, ok, _ := c.Get(ctx, "/dashboard/invoices"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestInstrumented_PassesThrough(t *testing.T) {
	c := Instrumented(NewMemoryPageCache(time.Minute))
	ctx := context.Background()

	if err := c.Set(ctx, "/dashboard/invoices?page=1", []byte("a"), 0); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "/dashboard/invoices?page=1"); !ok {
		t.Fatalf("expected hit through wrapper")
	}
	if err := c.Revalidate(ctx, "/dashboard/invoices"); err != nil {
		t.Fatalf("Revalidate returned error: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "/dashboard/invoices?page=1"); ok {
		t.Fatalf("expected miss after revalidate")
	}
}

func TestMemoryPageCache_SetAfterRevalidateIsDropped(t *testing.T) {
	c := NewMemoryPageCache(time.Minute)
	ctx := context.Background()

	gen, err := c.Generation(ctx)
	if err != nil {
		t.Fatalf("Generation returned error: %v", err)
	}
	if err := c.Revalidate(ctx, "/dashboard/invoices"); err != nil {
		t.Fatalf("Revalidate returned error: %v", err)
	}

	err = c.Set(ctx, "/dashboard/invoices?page=1", []byte("stale"), gen)
	if !errors.Is(err, ports.ErrStalePage) {
		t.Fatalf("expected ErrStalePage, got %v", err)
	}
	if _, ok, _ := c.Get(ctx, "/dashboard/invoices?page=1"); ok {
		t.Fatalf("stale payload must not be cached")
	}

	fresh, _ := c.Generation(ctx)
	if fresh == gen {
		t.Fatalf("expected generation to advance past %d", gen)
	}
	if err := c.Set(ctx, "/dashboard/invoices?page=1", []byte("fresh"), fresh); err != nil {
		t.Fatalf("Set with current generation returned error: %v", err)
	}
}
