// Package globalreg implements the Global Object Registry of spec §4.7: a
// named-singleton bag wired at startup, with lifetime handles torn down in
// reverse insertion order.
//
// Grounded on the original's GlobalRegistry (globalregistry.cc):
// RegisterGlobal/FetchGlobal/InsertGlobal/RemoveGlobal become the name
// registry below, and RegisterLifetimeGlobal/DeleteLifetimeGlobals (which
// prepend on register and walk front-to-back on teardown, net effect:
// reverse-of-registration order) become Shutdown. Design note 9 replaces
// the original's process-wide singleton with an explicit value passed into
// constructors; Registry is that value.
package globalreg

import (
	"sync"

	"github.com/sensorcore/devicetracker/internal/dterr"
)

// RefID is the stable integer handle returned by RegisterName.
type RefID int

// Lifetime is something with explicit teardown, registered for ordered
// shutdown (the original's LifetimeGlobal).
type Lifetime interface {
	Shutdown()
}

// Registry is a named-singleton bag: names resolve to small integer refs,
// refs hold arbitrary values, and a subset of inserted values additionally
// register for ordered shutdown.
type Registry struct {
	mu         sync.Mutex
	nameToRef  map[string]RefID
	refToData  map[RefID]any
	nextRef    RefID
	lifetimes  []Lifetime
}

func New() *Registry {
	return &Registry{nameToRef: make(map[string]RefID), refToData: make(map[RefID]any)}
}

// RegisterName interns name, returning its existing ref if already known.
func (r *Registry) RegisterName(name string) RefID {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ref, ok := r.nameToRef[name]; ok {
		return ref
	}
	r.nextRef++
	ref := r.nextRef
	r.nameToRef[name] = ref
	return ref
}

// Insert stores obj under name, registering the name first if new.
func (r *Registry) Insert(name string, obj any) RefID {
	ref := r.RegisterName(name)
	r.mu.Lock()
	r.refToData[ref] = obj
	r.mu.Unlock()
	return ref
}

// InsertRef stores obj under an already-registered ref.
func (r *Registry) InsertRef(ref RefID, obj any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refToData[ref] = obj
}

// Fetch returns the object registered under name, if any.
func (r *Registry) Fetch(name string) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ref, ok := r.nameToRef[name]
	if !ok {
		return nil, dterr.New(dterr.NotFound, "globalreg.Fetch", errUnknownName(name))
	}
	obj, ok := r.refToData[ref]
	if !ok {
		return nil, dterr.New(dterr.NotFound, "globalreg.Fetch", errNoValue(name))
	}
	return obj, nil
}

// FetchRef returns the object registered under ref, if any.
func (r *Registry) FetchRef(ref RefID) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	obj, ok := r.refToData[ref]
	return obj, ok
}

// Remove deletes name's binding. The name itself remains interned.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ref, ok := r.nameToRef[name]; ok {
		delete(r.refToData, ref)
	}
}

// RegisterLifetime adds l to the shutdown list. Lifetimes are torn down in
// reverse registration order (last registered, first shut down).
func (r *Registry) RegisterLifetime(l Lifetime) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lifetimes = append(r.lifetimes, l)
}

// RemoveLifetime withdraws l from the shutdown list without invoking it.
func (r *Registry) RemoveLifetime(l Lifetime) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.lifetimes {
		if existing == l {
			r.lifetimes = append(r.lifetimes[:i], r.lifetimes[i+1:]...)
			return
		}
	}
}

// Shutdown calls Shutdown on every registered lifetime, in reverse
// insertion order, then clears the list.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	lifetimes := make([]Lifetime, len(r.lifetimes))
	copy(lifetimes, r.lifetimes)
	r.lifetimes = nil
	r.mu.Unlock()

	for i := len(lifetimes) - 1; i >= 0; i-- {
		lifetimes[i].Shutdown()
	}
}
