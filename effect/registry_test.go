package effect

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/achilleasa/embers/render"
)

type mockEffect struct {
	Base

	name      string
	maxFrames int
	initErr   error
	events    *[]string
	updates   int
	disposals int
}

func newMockEffect(name string, maxFrames int, events *[]string) *mockEffect {
	return &mockEffect{name: name, maxFrames: maxFrames, events: events}
}

func (e *mockEffect) Kind() Kind { return KindUnknown }

func (e *mockEffect) Init() error {
	if e.initErr != nil {
		return e.initErr
	}
	if err := e.beginInit(e.maxFrames); err != nil {
		return err
	}
	e.addRenderable(render.NewPolyline(1))
	return nil
}

func (e *mockEffect) Update(_ Host) {
	if !e.beginUpdate() {
		return
	}
	e.updates++
	e.record("update")
	e.advance()
}

func (e *mockEffect) Dispose() {
	if !e.beginDispose() {
		return
	}
	e.disposals++
	e.record("dispose")
}

func (e *mockEffect) record(op string) {
	if e.events != nil {
		*e.events = append(*e.events, fmt.Sprintf("%s:%s", op, e.name))
	}
}

func TestRegistryEvictsByThreshold(t *testing.T) {
	host := render.NewScene()
	reg := NewRegistry()
	rng := rand.New(rand.NewPCG(1, 2))

	var spawned []Effect
	for _, frames := range []int{10, 20, 30} {
		params := DefaultRingBurstParams()
		params.Frames = frames
		e, err := NewRingBurst(params, rng)
		if err != nil {
			t.Fatal(err)
		}
		if err = reg.Spawn(host, e); err != nil {
			t.Fatal(err)
		}
		spawned = append(spawned, e)
	}

	if host.Len() != 3*DefaultRingBurstParams().Rings {
		t.Fatalf("expected all rings to be attached; got %d renderables", host.Len())
	}

	for tick := 0; tick < 25; tick++ {
		reg.Tick(host)
	}

	live := reg.Live()
	if len(live) != 1 || live[0] != spawned[2] {
		t.Fatalf("expected only the 30 frame effect to be live; got %d live effects", len(live))
	}
	if host.Len() != DefaultRingBurstParams().Rings {
		t.Fatalf("expected evicted renderables to be detached; got %d attached", host.Len())
	}

	stats := reg.Stats()
	if stats.Spawned != 3 || stats.Evicted != 2 || stats.Ticks != 25 || stats.Live != 1 || stats.Peak != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestRegistryUpdatesBeforeEvicting(t *testing.T) {
	host := render.NewScene()
	reg := NewRegistry()

	var events []string
	first := newMockEffect("a", 0, &events)
	second := newMockEffect("b", 0, &events)
	third := newMockEffect("c", 5, &events)
	for _, e := range []*mockEffect{first, second, third} {
		if err := reg.Spawn(host, e); err != nil {
			t.Fatal(err)
		}
	}

	reg.Tick(host)

	exp := []string{"update:a", "update:b", "update:c", "dispose:a", "dispose:b"}
	if fmt.Sprint(events) != fmt.Sprint(exp) {
		t.Fatalf("expected events %v; got %v", exp, events)
	}

	for _, e := range []*mockEffect{first, second} {
		if e.updates != 1 || e.disposals != 1 {
			t.Fatalf("expected %s to be updated and disposed exactly once; got %d updates, %d disposals", e.name, e.updates, e.disposals)
		}
		for _, r := range e.Renderables() {
			if host.Has(r) {
				t.Fatalf("expected renderables of %s to be detached", e.name)
			}
		}
	}

	if reg.Len() != 1 {
		t.Fatalf("expected 1 live effect; got %d", reg.Len())
	}
}

func TestRegistryInvariantAfterEveryTick(t *testing.T) {
	host := render.NewScene()
	reg := NewRegistry()
	rng := rand.New(rand.NewPCG(7, 7))

	for tick := 0; tick < 200; tick++ {
		if tick%3 == 0 {
			e := newMockEffect(fmt.Sprint(tick), rng.IntN(20), nil)
			if err := reg.Spawn(host, e); err != nil {
				t.Fatal(err)
			}
		}

		reg.Tick(host)

		for _, e := range reg.Live() {
			if e.Done() {
				t.Fatalf("tick %d: found a done effect in the live set", tick)
			}
		}
	}
}

func TestRegistrySpawnInitError(t *testing.T) {
	host := render.NewScene()
	reg := NewRegistry()

	e := newMockEffect("broken", 1, nil)
	e.initErr = errors.New("boom")
	if err := reg.Spawn(host, e); err != e.initErr {
		t.Fatalf("expected to get init error; got %v", err)
	}

	if reg.Len() != 0 || host.Len() != 0 {
		t.Fatalf("expected nothing to be tracked or attached; live=%d attached=%d", reg.Len(), host.Len())
	}

	// Spawning an already initialized effect must fail too.
	ok := newMockEffect("ok", 1, nil)
	if err := reg.Spawn(host, ok); err != nil {
		t.Fatal(err)
	}
	if err := reg.Spawn(host, ok); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("expected to get ErrAlreadyInitialized; got %v", err)
	}
	if reg.Len() != 1 {
		t.Fatalf("expected 1 live effect; got %d", reg.Len())
	}
}

func TestRegistryClear(t *testing.T) {
	host := render.NewScene()
	reg := NewRegistry()

	effects := []*mockEffect{newMockEffect("a", 100, nil), newMockEffect("b", 100, nil)}
	for _, e := range effects {
		if err := reg.Spawn(host, e); err != nil {
			t.Fatal(err)
		}
	}
	reg.Tick(host)
	reg.Clear(host)

	if reg.Len() != 0 || host.Len() != 0 {
		t.Fatalf("expected registry and host to be empty; live=%d attached=%d", reg.Len(), host.Len())
	}
	for _, e := range effects {
		if e.disposals != 1 {
			t.Fatalf("expected %s to be disposed once; got %d", e.name, e.disposals)
		}
	}
}
