package effect

import "github.com/achilleasa/embers/log"

// Stats summarizes registry activity.
type Stats struct {
	Spawned uint64
	Evicted uint64
	Ticks   uint64
	Live    int
	Peak    int
}

// Registry owns the live effects, drives their per-frame update and evicts
// the ones that are done. It is not safe for concurrent use; it is meant to
// be driven from a host's frame callback.
type Registry struct {
	logger    log.Logger
	live      []Effect
	stats     Stats
	softLimit int
	overLimit bool
}

// Create an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		logger: log.New("effect registry"),
	}
}

// Warn when the number of live effects exceeds limit. A zero limit disables
// the check. Effects are never evicted because of the limit.
func (r *Registry) SetSoftLimit(limit int) {
	r.softLimit = limit
}

// Initialize an effect, attach its renderables to the host and start
// tracking it. If Init fails nothing is attached and the error is returned.
func (r *Registry) Spawn(host Host, e Effect) error {
	if err := e.Init(); err != nil {
		return err
	}

	for _, renderable := range e.Renderables() {
		host.Attach(renderable)
	}
	r.live = append(r.live, e)

	r.stats.Spawned++
	if len(r.live) > r.stats.Peak {
		r.stats.Peak = len(r.live)
	}
	r.logger.Infof("spawned %s effect (live: %d)", e.Kind(), len(r.live))
	r.checkSoftLimit()
	return nil
}

// Tick updates every live effect and then evicts the ones that are done.
// All updates complete before any eviction happens, so an effect that
// finishes during this tick still gets its full update.
func (r *Registry) Tick(host Host) {
	r.stats.Ticks++

	for _, e := range r.live {
		if !e.Done() {
			e.Update(host)
		}
	}

	kept := 0
	for _, e := range r.live {
		if e.Done() {
			r.evict(host, e)
			continue
		}
		r.live[kept] = e
		kept++
	}
	for i := kept; i < len(r.live); i++ {
		r.live[i] = nil
	}
	r.live = r.live[:kept]

	r.checkSoftLimit()
}

// Detach and dispose all live effects regardless of their state.
func (r *Registry) Clear(host Host) {
	for i, e := range r.live {
		r.evict(host, e)
		r.live[i] = nil
	}
	r.live = r.live[:0]
}

func (r *Registry) evict(host Host, e Effect) {
	for _, renderable := range e.Renderables() {
		host.Detach(renderable)
	}
	e.Dispose()
	r.stats.Evicted++
	r.logger.Infof("evicted %s effect after %d frames", e.Kind(), e.Frames())
}

func (r *Registry) checkSoftLimit() {
	if r.softLimit <= 0 {
		return
	}

	over := len(r.live) > r.softLimit
	if over && !r.overLimit {
		r.logger.Warningf("%d live effects exceed the soft limit of %d", len(r.live), r.softLimit)
	}
	r.overLimit = over
}

// Get a copy of the live effects in creation order.
func (r *Registry) Live() []Effect {
	out := make([]Effect, len(r.live))
	copy(out, r.live)
	return out
}

// Get the number of live effects.
func (r *Registry) Len() int {
	return len(r.live)
}

// Get registry statistics.
func (r *Registry) Stats() Stats {
	s := r.stats
	s.Live = len(r.live)
	return s
}
