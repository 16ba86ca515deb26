package memory

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/bokjinpyeong/my-data-reflection/internal/db"
)

func TestSetGet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("Get = %q, want v", got)
	}
}

func TestGet_Missing(t *testing.T) {
	s := NewStore()

	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("error = %v, want ErrKeyNotFound", err)
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if err := s.Set(ctx, "k", []byte("abc")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, _ := s.Get(ctx, "k")
	got[0] = 'x'

	again, _ := s.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("stored value mutated through returned slice: %q", again)
	}
}

func TestDelAndExists(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_ = s.Set(ctx, "k", []byte("v"))
	if ok, _ := s.Exists(ctx, "k"); !ok {
		t.Error("Exists = false after Set")
	}

	if err := s.Del(ctx, "k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if ok, _ := s.Exists(ctx, "k"); ok {
		t.Error("Exists = true after Del")
	}
}

func TestScan(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	for _, k := range []string{"app:record:b", "app:record:a", "app:other:c", "plain"} {
		_ = s.Set(ctx, k, []byte("v"))
	}

	keys, err := s.Scan(ctx, "app:record:*")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	want := []string{"app:record:a", "app:record:b"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("Scan = %v, want %v", keys, want)
	}
}
