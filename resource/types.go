package resource

import "strconv"

// Handle is an opaque reference to a value in a Table.
// Handle 0 is reserved and always invalid.
type Handle uint32

// TypeID tags what a handle refers to.
type TypeID uint32

const (
	TypeInvalid TypeID = iota
	TypeMeshResult
	TypePointCloudResult
	TypeMesh
	TypePointCloud
)

func (t TypeID) String() string {
	switch t {
	case TypeMeshResult:
		return "mesh-result"
	case TypePointCloudResult:
		return "point-cloud-result"
	case TypeMesh:
		return "mesh"
	case TypePointCloud:
		return "point-cloud"
	}
	return "type(" + strconv.FormatUint(uint64(t), 10) + ")"
}

// EventType is the kind of lifecycle event.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
	EventTaken
)

func (e EventType) String() string {
	switch e {
	case EventCreated:
		return "created"
	case EventDropped:
		return "dropped"
	case EventTaken:
		return "taken"
	}
	return "unknown"
}

// Event describes one handle lifecycle change.
type Event struct {
	Value  any
	Handle Handle
	TypeID TypeID
	Type   EventType
}

// Observer receives lifecycle events. Observers are called with no table
// lock held.
type Observer interface {
	OnResourceEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnResourceEvent(e Event) { f(e) }

// Dropper is optionally implemented by values that need cleanup when the
// table drops them. Values leaving through Take are not dropped.
type Dropper interface {
	Drop()
}
