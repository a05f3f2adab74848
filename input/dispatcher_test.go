package input

import (
	"errors"
	"fmt"
	"testing"
)

func TestDispatcherDrain(t *testing.T) {
	d, err := NewDispatcher(map[string]string{"1": "nova", "2": "spread"})
	if err != nil {
		t.Fatal(err)
	}

	for _, key := range "12x1" {
		d.Push(key)
	}

	var got []string
	d.Drain(func(key rune, preset string) {
		got = append(got, fmt.Sprintf("%c:%s", key, preset))
	})

	exp := "[1:nova 2:spread 1:nova]"
	if fmt.Sprint(got) != exp {
		t.Fatalf("expected drained presets %s; got %v", exp, got)
	}
	if d.Ignored() != 1 {
		t.Fatalf("expected 1 ignored key; got %d", d.Ignored())
	}

	// The queue is empty after a drain.
	calls := 0
	d.Drain(func(rune, string) { calls++ })
	if calls != 0 {
		t.Fatalf("expected an empty queue; got %d calls", calls)
	}
}

func TestDispatcherHelp(t *testing.T) {
	d, err := NewDispatcher(map[string]string{"3": "spread-thick", "1": "nova", "2": "spread"})
	if err != nil {
		t.Fatal(err)
	}

	exp := "[1] nova  [2] spread  [3] spread-thick"
	if got := d.Help(); got != exp {
		t.Fatalf("expected help %q; got %q", exp, got)
	}

	if preset, bound := d.Lookup('2'); !bound || preset != "spread" {
		t.Fatalf("expected '2' to be bound to spread; got %q (%t)", preset, bound)
	}
}

func TestInvalidBindings(t *testing.T) {
	type spec struct {
		bindings map[string]string
	}
	specs := []spec{
		{map[string]string{"12": "nova"}},
		{map[string]string{"": "nova"}},
		{map[string]string{"1": ""}},
	}

	for index, s := range specs {
		if _, err := NewDispatcher(s.bindings); !errors.Is(err, ErrInvalidBinding) {
			t.Fatalf("[spec %d] expected ErrInvalidBinding; got %v", index, err)
		}
	}
}
