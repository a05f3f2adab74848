package trail

import (
	"reflect"
	"testing"

	"github.com/achilleasa/embers/types"
)

func TestInvalidCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1, -100} {
		if _, err := New(capacity); err != ErrInvalidCapacity {
			t.Fatalf("expected to get %v for capacity %d; got %v", ErrInvalidCapacity, capacity, err)
		}
	}
}

func TestPushTruncatesOldestSamples(t *testing.T) {
	b, err := New(3)
	if err != nil {
		t.Fatal(err)
	}

	for x := 0; x < 4; x++ {
		b.Push(types.XYZ(float32(x), 0, 0))
	}

	exp := []types.Vec3{{3, 0, 0}, {2, 0, 0}, {1, 0, 0}}
	if got := b.Snapshot(); !reflect.DeepEqual(got, exp) {
		t.Fatalf("expected snapshot to be %v; got %v", exp, got)
	}
}

func TestBoundAndOrderOverManyPushes(t *testing.T) {
	type spec struct {
		capacity int
		pushes   int
	}
	specs := []spec{
		{1, 10},
		{2, 7},
		{5, 3},
		{7, 100},
		{150, 1000},
	}

	for index, s := range specs {
		b, err := New(s.capacity)
		if err != nil {
			t.Fatal(err)
		}

		for i := 0; i < s.pushes; i++ {
			b.Push(types.XYZ(float32(i), float32(-i), 1))

			if b.Len() > b.Cap() {
				t.Fatalf("[spec %d] push %d: expected len <= %d; got %d", index, i, b.Cap(), b.Len())
			}

			head, ok := b.Head()
			if !ok || head[0] != float32(i) {
				t.Fatalf("[spec %d] push %d: expected head to be the last pushed point; got %v", index, i, head)
			}

			// Samples must be strictly ordered from newest to oldest.
			snapshot := b.Snapshot()
			for j := range snapshot {
				if exp := float32(i - j); snapshot[j][0] != exp {
					t.Fatalf("[spec %d] push %d: expected sample %d to be %f; got %f", index, i, j, exp, snapshot[j][0])
				}
			}
		}

		expLen := s.pushes
		if expLen > s.capacity {
			expLen = s.capacity
		}
		if b.Len() != expLen {
			t.Fatalf("[spec %d] expected final len %d; got %d", index, expLen, b.Len())
		}
	}
}

func TestReset(t *testing.T) {
	b, _ := New(4)
	b.Push(types.XYZ(1, 1, 1))
	b.Reset()

	if b.Len() != 0 {
		t.Fatalf("expected empty buffer after reset; got len %d", b.Len())
	}
	if _, ok := b.Head(); ok {
		t.Fatal("expected Head to report an empty buffer")
	}

	b.Push(types.XYZ(2, 2, 2))
	if got := b.At(0); got != types.XYZ(2, 2, 2) {
		t.Fatalf("expected At(0) to be the pushed point; got %v", got)
	}
}

func TestPushDoesNotAllocate(t *testing.T) {
	b, _ := New(16)
	p := types.XYZ(1, 2, 3)
	allocs := testing.AllocsPerRun(1000, func() {
		b.Push(p)
	})
	if allocs != 0 {
		t.Fatalf("expected Push to not allocate; got %f allocs per run", allocs)
	}
}
