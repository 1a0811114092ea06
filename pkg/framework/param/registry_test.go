package param

import (
	"errors"
	"sync"
	"testing"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	err := r.Add(
		SwitchParameter(0, "Solo").Build(),
		ReadoutParameter(1, "Rotation", 0, 100, 100).Build(),
	)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	return r
}

func TestRegistry(t *testing.T) {
	r := newTestRegistry(t)

	if r.Count() != 2 {
		t.Errorf("Count = %d, want 2", r.Count())
	}
	if r.GetByIndex(1).Name != "Rotation" {
		t.Error("GetByIndex should keep insertion order")
	}
	if r.GetByIndex(5) != nil || r.GetByIndex(-1) != nil {
		t.Error("Out of range index should return nil")
	}
	if all := r.All(); len(all) != 2 || all[0].ID != 0 {
		t.Errorf("All returned %v", all)
	}

	if err := r.Add(SwitchParameter(0, "Duplicate").Build()); err == nil {
		t.Error("Duplicate id should be rejected")
	}
}

func TestRegistrySetNotifies(t *testing.T) {
	r := newTestRegistry(t)
	sub := r.Subscribe(4)

	if err := r.Set(0, 1); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := r.SetPlain(1, 25); err != nil {
		t.Fatalf("SetPlain failed: %v", err)
	}

	first := <-sub.C()
	if first.ID != 0 || first.Normalized != 1 || first.Plain != 1 {
		t.Errorf("First change = %+v", first)
	}
	second := <-sub.C()
	if second.ID != 1 || second.Plain != 25 {
		t.Errorf("Second change = %+v", second)
	}

	if r.Get(1).Int() != 25 {
		t.Errorf("Stored value = %d, want 25", r.Get(1).Int())
	}
}

func TestRegistrySetUnknown(t *testing.T) {
	r := newTestRegistry(t)

	if err := r.Set(99, 1); !errors.Is(err, ErrUnknownParameter) {
		t.Errorf("Set unknown = %v, want ErrUnknownParameter", err)
	}
	if err := r.SetPlain(99, 1); !errors.Is(err, ErrUnknownParameter) {
		t.Errorf("SetPlain unknown = %v, want ErrUnknownParameter", err)
	}
}

func TestRegistryOverflowDoesNotBlock(t *testing.T) {
	r := newTestRegistry(t)
	sub := r.Subscribe(1)

	for i := 0; i < 10; i++ {
		r.Set(0, float64(i%2))
	}

	if !sub.Overflowed() {
		t.Error("Subscription should report overflow")
	}
	if sub.Overflowed() {
		t.Error("Overflowed should clear after being read")
	}
	if len(sub.C()) != 1 {
		t.Errorf("Buffered changes = %d, want 1", len(sub.C()))
	}
}

func TestRegistryUnsubscribe(t *testing.T) {
	r := newTestRegistry(t)
	sub := r.Subscribe(2)
	other := r.Subscribe(2)

	r.Unsubscribe(sub)
	r.Set(0, 1)

	if _, ok := <-sub.C(); ok {
		t.Error("Unsubscribed channel should be closed and empty")
	}
	if len(other.C()) != 1 {
		t.Error("Remaining subscriber should still receive changes")
	}
}

func TestRegistryConcurrentSet(t *testing.T) {
	r := newTestRegistry(t)
	sub := r.Subscribe(1024)

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				r.SetPlain(1, float64(i))
				_ = r.Get(0).Bool()
			}
		}()
	}
	wg.Wait()

	if got := len(sub.C()); got != 400 {
		t.Errorf("Received %d changes, want 400", got)
	}
}
