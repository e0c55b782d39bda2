package element

import (
	"fmt"
	"sync"

	"github.com/sensorcore/devicetracker/internal/dterr"
)

// FieldID is a stable, globally-unique integer assigned to a registered
// field name at registration time. It is never reused and is valid for the
// lifetime of the process only (spec §3.1, §6.1).
type FieldID int64

// Node is the minimal interface every tracked-element node satisfies: a
// stable field id, an interned name, a kind, and a dirty flag. Concrete
// scalar and container types embed Base to get this for free; complex
// records embed Base too (through NewBase) and also implement Complex below.
type Node interface {
	FieldID() FieldID
	Name() string
	Kind() Kind
	Dirty() bool
	SetDirty(bool)
}

// Complex is a user-defined record composed of named children (spec §3.1's
// "complex" variant). Every complex node must be able to produce a fresh
// defaulted instance of its own concrete type, used by the registry to hand
// out prototypes and by device creation to hydrate new records. The clone
// takes the field id to stamp onto the new instance: the prototype stored at
// registration time is built with id 0 and never reused directly, so the id
// a caller actually gets has to come from the registry entry, not the
// prototype's own (meaningless) id.
type Complex interface {
	Node
	CloneType(id FieldID) Complex
}

// Base is embedded by every concrete node type to satisfy Node.
type Base struct {
	id    FieldID
	name  string
	kind  Kind
	dirty bool
}

func newBase(id FieldID, name string, kind Kind) Base {
	return Base{id: id, name: name, kind: kind}
}

// NewBase constructs a Base for a Complex type declared outside this
// package. The scalar/container/RRD types above all build Base through the
// unexported newBase; a record like a device's signal or location envelope
// lives in another package and needs the same embed to satisfy Complex.
func NewBase(id FieldID, name string, kind Kind) Base {
	return newBase(id, name, kind)
}

func (b *Base) FieldID() FieldID  { return b.id }
func (b *Base) Name() string      { return b.name }
func (b *Base) Kind() Kind        { return b.kind }
func (b *Base) Dirty() bool       { return b.dirty }
func (b *Base) SetDirty(d bool)   { b.dirty = d }

// entry is what the registry keeps per registered field.
type entry struct {
	id          FieldID
	name        string
	kind        Kind
	description string
	prototype   Complex // only set for KindComplex
}

// Registry is the interning field table of spec §4.1: register_field,
// register_complex, get_instance. A field id is global to the process
// (entry tracker in the original); names are unique and interned.
type Registry struct {
	mu     sync.Mutex
	byName map[string]*entry
	byID   map[FieldID]*entry
	nextID FieldID
}

// NewRegistry constructs an empty field registry. Field ids start at 1; 0
// is reserved as "unregistered / anonymous" for transient nodes and for
// complex prototypes built before they are registered.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*entry),
		byID:   make(map[FieldID]*entry),
		nextID: 1,
	}
}

// RegisterField interns name -> a scalar/container field id. Re-registering
// an existing name with the same kind returns the existing id; a kind
// mismatch is a SchemaConflict, which per spec §7 is a hard failure.
func (r *Registry) RegisterField(name string, kind Kind, description string) (FieldID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.byName[name]; ok {
		if e.kind != kind {
			return 0, dterr.New(dterr.SchemaConflict, "RegisterField",
				fmt.Errorf("field %q already registered as %s, not %s", name, e.kind, kind))
		}
		return e.id, nil
	}

	e := &entry{id: r.nextID, name: name, kind: kind, description: description}
	r.nextID++
	r.byName[name] = e
	r.byID[e.id] = e
	return e.id, nil
}

// RegisterComplex interns name -> a complex field id, storing prototype for
// later cloning. The prototype's own children must already be registered by
// the time it is passed in (spec §4.1).
func (r *Registry) RegisterComplex(name string, prototype Complex, description string) (FieldID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.byName[name]; ok {
		if e.kind != KindComplex {
			return 0, dterr.New(dterr.SchemaConflict, "RegisterComplex",
				fmt.Errorf("field %q already registered as %s, not complex", name, e.kind))
		}
		return e.id, nil
	}

	e := &entry{
		id:          r.nextID,
		name:        name,
		kind:        KindComplex,
		description: description,
		prototype:   prototype,
	}
	r.nextID++
	r.byName[name] = e
	r.byID[e.id] = e
	return e.id, nil
}

// MustRegisterField panics on SchemaConflict — used at package init time,
// where a conflict means a programming error that should abort startup.
func (r *Registry) MustRegisterField(name string, kind Kind, description string) FieldID {
	id, err := r.RegisterField(name, kind, description)
	if err != nil {
		panic(err)
	}
	return id
}

// MustRegisterComplex is the complex-field counterpart of MustRegisterField.
func (r *Registry) MustRegisterComplex(name string, prototype Complex, description string) FieldID {
	id, err := r.RegisterComplex(name, prototype, description)
	if err != nil {
		panic(err)
	}
	return id
}

// GetInstance returns a fresh defaulted node for id: a zero-valued scalar or
// container for scalar/container kinds, or prototype.CloneType(id) for a
// complex kind.
func (r *Registry) GetInstance(id FieldID) (Node, error) {
	r.mu.Lock()
	e, ok := r.byID[id]
	r.mu.Unlock()

	if !ok {
		return nil, dterr.New(dterr.NotFound, "GetInstance", fmt.Errorf("no field registered with id %d", id))
	}

	switch e.kind {
	case KindComplex:
		if e.prototype == nil {
			return nil, dterr.New(dterr.NotFound, "GetInstance", fmt.Errorf("field %q has no prototype", e.name))
		}
		return e.prototype.CloneType(e.id), nil
	default:
		return newScalarOrContainer(e.id, e.name, e.kind), nil
	}
}

// ID returns the field id interned for name, if any.
func (r *Registry) ID(name string) (FieldID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byName[name]
	if !ok {
		return 0, false
	}
	return e.id, true
}

// Name returns the interned name for a field id, or "" if unregistered.
func (r *Registry) Name(id FieldID) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.byID[id]; ok {
		return e.name
	}
	return ""
}

// Description returns the registered description for a field id.
func (r *Registry) Description(id FieldID) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.byID[id]; ok {
		return e.description
	}
	return ""
}
