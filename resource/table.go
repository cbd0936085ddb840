package resource

import (
	"sync"

	"github.com/wippyai/draco-go/errors"
)

// Table maps handles to values. It is safe for concurrent use.
type Table struct {
	entries   []entry
	freeList  []Handle
	observers []Observer
	mu        sync.RWMutex
	obsMu     sync.RWMutex
	live      int
	closed    bool
}

type entry struct {
	value  any
	typeID TypeID
	valid  bool
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		entries:  make([]entry, 0, 64),
		freeList: make([]Handle, 0, 16),
	}
}

var errClosed = errors.New(errors.PhaseHost, errors.KindInvalidHandle).
	Detail("resource table closed").
	Build()

// Insert stores value under a new handle.
func (t *Table) Insert(typeID TypeID, value any) (Handle, error) {
	if typeID == TypeInvalid {
		return 0, errors.InvalidInput(errors.PhaseHost, "cannot insert a value without a type")
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return 0, errClosed
	}

	e := entry{value: value, typeID: typeID, valid: true}
	var h Handle
	if n := len(t.freeList); n > 0 {
		h = t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		t.entries[h-1] = e
	} else {
		t.entries = append(t.entries, e)
		h = Handle(len(t.entries))
	}
	t.live++
	t.mu.Unlock()

	t.notify(Event{Type: EventCreated, Handle: h, TypeID: typeID, Value: value})
	return h, nil
}

// lookup returns the entry slot for h. Caller holds mu.
func (t *Table) lookup(h Handle) (*entry, bool) {
	if h == 0 || int(h) > len(t.entries) {
		return nil, false
	}
	e := &t.entries[h-1]
	if !e.valid {
		return nil, false
	}
	return e, true
}

// Get returns the value and type stored under h.
func (t *Table) Get(h Handle) (any, TypeID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.lookup(h)
	if !ok {
		return nil, TypeInvalid, false
	}
	return e.value, e.typeID, true
}

// GetTyped returns the value under h if it was inserted with typeID.
func (t *Table) GetTyped(h Handle, typeID TypeID) (any, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.lookup(h)
	if !ok {
		return nil, errors.InvalidHandle(errors.PhaseHost, uint32(h), typeID.String())
	}
	if e.typeID != typeID {
		return nil, typeMismatch(h, typeID, e.typeID)
	}
	return e.value, nil
}

// Take removes the value under h without dropping it. Ownership passes to the
// caller.
func (t *Table) Take(h Handle, typeID TypeID) (any, error) {
	t.mu.Lock()
	e, ok := t.lookup(h)
	if !ok {
		t.mu.Unlock()
		return nil, errors.InvalidHandle(errors.PhaseHost, uint32(h), typeID.String())
	}
	if e.typeID != typeID {
		t.mu.Unlock()
		return nil, typeMismatch(h, typeID, e.typeID)
	}
	value := t.release(h, e)
	t.mu.Unlock()

	t.notify(Event{Type: EventTaken, Handle: h, TypeID: typeID, Value: value})
	return value, nil
}

// Remove drops the value under h and reports whether h was live.
func (t *Table) Remove(h Handle) (any, bool) {
	t.mu.Lock()
	e, ok := t.lookup(h)
	if !ok {
		t.mu.Unlock()
		return nil, false
	}
	typeID := e.typeID
	value := t.release(h, e)
	t.mu.Unlock()

	if d, ok := value.(Dropper); ok {
		d.Drop()
	}
	t.notify(Event{Type: EventDropped, Handle: h, TypeID: typeID, Value: value})
	return value, true
}

// release frees the slot. Caller holds mu for writing.
func (t *Table) release(h Handle, e *entry) any {
	value := e.value
	*e = entry{}
	t.freeList = append(t.freeList, h)
	t.live--
	return value
}

// Len returns the number of live handles.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.live
}

// Each calls fn for every live handle until fn returns false. The table is
// read-locked during the walk.
func (t *Table) Each(fn func(Handle, TypeID, any) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i, e := range t.entries {
		if e.valid && !fn(Handle(i+1), e.typeID, e.value) {
			return
		}
	}
}

// Clear drops every live value. The table stays usable.
func (t *Table) Clear() {
	var handles []Handle
	t.Each(func(h Handle, _ TypeID, _ any) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		t.Remove(h)
	}
}

// Close drops every live value and rejects further inserts.
func (t *Table) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	t.Clear()
	return nil
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer. o must be comparable.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}

func typeMismatch(h Handle, want, got TypeID) *errors.Error {
	return errors.New(errors.PhaseHost, errors.KindTypeMismatch).
		Detail("handle %d holds %s, want %s", h, got, want).
		Value(uint32(h)).
		Build()
}
