package param

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// ErrUnknownParameter is returned when an ID is not registered.
var ErrUnknownParameter = errors.New("unknown parameter")

// Change describes one parameter update.
type Change struct {
	ID         uint32
	Normalized float64
	Plain      float64
}

// Subscription receives parameter changes. Deliveries never block the
// writer; when the buffer is full the change is dropped and the
// subscription is marked as overflowed so the reader can resync.
type Subscription struct {
	ch       chan Change
	overflow atomic.Bool
}

// C returns the change channel. It is closed by Unsubscribe.
func (s *Subscription) C() <-chan Change {
	return s.ch
}

// Overflowed reports whether changes were dropped since the last call.
func (s *Subscription) Overflowed() bool {
	return s.overflow.Swap(false)
}

// Registry manages plugin parameters
type Registry struct {
	params map[uint32]*Parameter
	order  []uint32 // Maintain order for indexed access
	subs   []*Subscription
	mu     sync.RWMutex
}

// NewRegistry creates a new parameter registry
func NewRegistry() *Registry {
	return &Registry{
		params: make(map[uint32]*Parameter),
		order:  make([]uint32, 0),
	}
}

// Add registers a new parameter
func (r *Registry) Add(params ...*Parameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range params {
		if _, exists := r.params[p.ID]; exists {
			return fmt.Errorf("parameter %d (%s): duplicate id", p.ID, p.Name)
		}
		r.params[p.ID] = p
		r.order = append(r.order, p.ID)
	}

	return nil
}

// Get retrieves a parameter by ID
func (r *Registry) Get(id uint32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.params[id]
}

// GetByIndex retrieves a parameter by index
func (r *Registry) GetByIndex(index int32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= int32(len(r.order)) {
		return nil
	}

	id := r.order[index]
	return r.params[id]
}

// Count returns the number of parameters
func (r *Registry) Count() int32 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int32(len(r.order))
}

// All returns all parameters in order
func (r *Registry) All() []*Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Parameter, len(r.order))
	for i, id := range r.order {
		result[i] = r.params[id]
	}

	return result
}

// Set stores a normalized value and notifies subscribers.
// It is meant for host and UI threads, not the audio thread.
func (r *Registry) Set(id uint32, normalized float64) error {
	p := r.Get(id)
	if p == nil {
		return fmt.Errorf("set %d: %w", id, ErrUnknownParameter)
	}

	p.SetValue(normalized)
	r.notify(Change{ID: id, Normalized: p.GetValue(), Plain: p.GetPlainValue()})
	return nil
}

// SetPlain stores a plain value and notifies subscribers.
func (r *Registry) SetPlain(id uint32, plain float64) error {
	p := r.Get(id)
	if p == nil {
		return fmt.Errorf("set %d: %w", id, ErrUnknownParameter)
	}
	return r.Set(id, p.Normalize(plain))
}

// Subscribe registers a change listener with the given buffer size.
func (r *Registry) Subscribe(buffer int) *Subscription {
	if buffer < 1 {
		buffer = 1
	}
	sub := &Subscription{ch: make(chan Change, buffer)}

	r.mu.Lock()
	r.subs = append(r.subs, sub)
	r.mu.Unlock()

	return sub
}

// Unsubscribe removes a listener and closes its channel.
func (r *Registry) Unsubscribe(sub *Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.subs {
		if s == sub {
			r.subs = append(r.subs[:i], r.subs[i+1:]...)
			close(sub.ch)
			return
		}
	}
}

func (r *Registry) notify(c Change) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.subs {
		select {
		case s.ch <- c:
		default:
			s.overflow.Store(true)
		}
	}
}
