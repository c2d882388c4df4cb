package stream

import (
	"context"
	"fmt"
	"testing"

	"github.com/objectfs/objectfs/pkg/types"
)

func TestStream_NextDeliversAndExhausts(t *testing.T) {
	ch := make(chan Result, 2)
	ch <- Result{File: types.File{FilePointer: types.FilePointer{Path: "a"}}}
	ch <- Result{File: types.File{FilePointer: types.FilePointer{Path: "b"}}}
	close(ch)

	s := New(ch, func() {})

	var got []string
	for {
		f, ok, err := s.Next(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			break
		}
		got = append(got, f.Path)
	}

	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("got %v, want [a b]", got)
	}
}

func TestStream_NextPropagatesError(t *testing.T) {
	ch := make(chan Result, 1)
	ch <- Result{Err: fmt.Errorf("boom")}
	close(ch)

	s := New(ch, func() {})

	_, ok, err := s.Next(context.Background())
	if ok {
		t.Fatal("expected ok=false on error")
	}
	if err == nil || err.Error() != "boom" {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestStream_CloseCancelsOnce(t *testing.T) {
	ch := make(chan Result)
	calls := 0
	s := New(ch, func() { calls++ })

	s.Close()
	s.Close()
	s.Close()

	if calls != 1 {
		t.Fatalf("cancel called %d times, want 1", calls)
	}
}

func TestStream_NextHonorsCallerContext(t *testing.T) {
	ch := make(chan Result)
	s := New(ch, func() {})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok, err := s.Next(ctx)
	if ok {
		t.Fatal("expected ok=false when caller context is done")
	}
	if err == nil {
		t.Fatal("expected context error")
	}
}
