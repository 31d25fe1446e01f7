package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cwbudde/algo-voice/device"
)

// Handle identifies an engine in a Registry. Handles are never reused;
// the zero Handle is never valid.
type Handle uint64

// Registry maps opaque handles to running engines for control callers
// that cannot hold an *Engine.
type Registry struct {
	mu      sync.Mutex
	next    Handle
	engines map[Handle]*Engine
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{engines: make(map[Handle]*Engine)}
}

// Start starts an engine and returns its handle.
func (r *Registry) Start(host device.Host, wavelength float64, opts ...Option) (Handle, error) {
	e, err := Start(host, wavelength, opts...)
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.engines[r.next] = e
	return r.next, nil
}

// Engine returns the engine for h.
func (r *Registry) Engine(h Handle) (*Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.engines[h]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	return e, nil
}

// SetPitch sets the pitch ratio of the engine for h.
func (r *Registry) SetPitch(h Handle, ratio float64) error {
	e, err := r.Engine(h)
	if err != nil {
		return err
	}
	return e.SetPitch(ratio)
}

// Stop stops the engine for h and consumes the handle.
func (r *Registry) Stop(h Handle) error {
	r.mu.Lock()
	e, ok := r.engines[h]
	delete(r.engines, h)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	return e.Stop()
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.engines)
}

// StopAll stops every registered engine.
func (r *Registry) StopAll() error {
	r.mu.Lock()
	engines := r.engines
	r.engines = make(map[Handle]*Engine)
	r.mu.Unlock()

	var errs []error
	for _, e := range engines {
		if err := e.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
