// Package input maps key presses to effect presets.
package input

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/achilleasa/embers/log"
)

var ErrInvalidBinding = errors.New("input: invalid key binding")

// Dispatcher queues key presses delivered by a render host and hands the
// bound preset names to the frame callback. Keys are queued and drained on
// the host's frame thread; the dispatcher is not safe for concurrent use.
type Dispatcher struct {
	logger   log.Logger
	bindings map[rune]string
	pending  []rune
	ignored  uint64
}

// Create a dispatcher from a key -> preset map. Keys must be single
// characters.
func NewDispatcher(bindings map[string]string) (*Dispatcher, error) {
	d := &Dispatcher{
		logger:   log.New("input"),
		bindings: make(map[rune]string, len(bindings)),
	}
	for key, preset := range bindings {
		r, size := utf8.DecodeRuneInString(key)
		if r == utf8.RuneError || size != len(key) {
			return nil, fmt.Errorf("%w: key %q must be a single character", ErrInvalidBinding, key)
		}
		if preset == "" {
			return nil, fmt.Errorf("%w: key %q is not bound to a preset", ErrInvalidBinding, key)
		}
		d.bindings[r] = preset
	}
	return d, nil
}

// Queue a key press.
func (d *Dispatcher) Push(key rune) {
	d.pending = append(d.pending, key)
}

// Invoke fn for every queued key press that is bound to a preset, in the
// order they were pushed, and clear the queue. Unbound keys are dropped.
func (d *Dispatcher) Drain(fn func(key rune, preset string)) {
	for _, key := range d.pending {
		preset, bound := d.bindings[key]
		if !bound {
			d.ignored++
			d.logger.Debugf("ignoring unbound key %q", key)
			continue
		}
		fn(key, preset)
	}
	d.pending = d.pending[:0]
}

// Get the preset bound to key.
func (d *Dispatcher) Lookup(key rune) (string, bool) {
	preset, bound := d.bindings[key]
	return preset, bound
}

// Get the number of key presses that were dropped because they were not bound.
func (d *Dispatcher) Ignored() uint64 {
	return d.ignored
}

// Get the bound keys in ascending order.
func (d *Dispatcher) Keys() []rune {
	keys := make([]rune, 0, len(d.bindings))
	for key := range d.bindings {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Get a one line summary of the bindings, e.g. "[1] nova  [2] spread".
func (d *Dispatcher) Help() string {
	var sb strings.Builder
	for i, key := range d.Keys() {
		if i > 0 {
			sb.WriteString("  ")
		}
		fmt.Fprintf(&sb, "[%c] %s", key, d.bindings[key])
	}
	return sb.String()
}
