package routine

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

func TestRunSafe(t *testing.T) {
	t.Run("no panic", func(t *testing.T) {
		ran := false
		RunSafe(func() { ran = true })
		if !ran {
			t.Fatal("fn did not run")
		}
	})

	t.Run("panic recovered", func(t *testing.T) {
		var got any
		RunSafe(func() { panic("boom") }, func(r any) { got = r })
		if got != "boom" {
			t.Fatalf("expected cleanup to receive %q, got %v", "boom", got)
		}
	})

	t.Run("cleanups run in order", func(t *testing.T) {
		var order []int
		RunSafe(func() { panic("x") },
			func(r any) { order = append(order, 1) },
			func(r any) { order = append(order, 2) },
		)
		if len(order) != 2 || order[0] != 1 || order[1] != 2 {
			t.Fatalf("unexpected cleanup order: %v", order)
		}
	})
}

func TestGoSafe(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)

	var got any
	GoSafe(func() { panic("async boom") }, func(r any) {
		got = r
		wg.Done()
	})
	wg.Wait()

	if got != "async boom" {
		t.Fatalf("expected cleanup to receive %q, got %v", "async boom", got)
	}
}

func TestRecoveredError(t *testing.T) {
	var err error
	func() {
		defer Recover(func(r any) {
			err = NewRecovered(0, r).AsError()
		})
		panic("oops")
	}()

	if err == nil {
		t.Fatal("expected an error")
	}
	msg := fmt.Sprintf("%v", err)
	if !strings.Contains(msg, "panic: oops") {
		t.Errorf("error message missing panic value: %s", msg)
	}
	if !strings.Contains(msg, "TestRecoveredError") {
		t.Errorf("error message missing recovery site: %s", msg)
	}
}

func TestRecoveredNil(t *testing.T) {
	var p *Recovered
	if err := p.AsError(); err != nil {
		t.Fatalf("expected nil error for nil Recovered, got %v", err)
	}
}
