// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package params

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/juju/errors"
)

// Life describes the lifecycle state of an entity ("alive", "dying"
// or "dead").
type Life string

const (
	Alive Life = "alive"
	Dying Life = "dying"
	Dead  Life = "dead"
)

// EntityInfo is implemented by all delta entity types. It is used to
// identify the kind and id of the entity a delta applies to.
type EntityInfo interface {
	// EntityId uniquely identifies the entity within its kind.
	EntityId() EntityId
}

// EntityId identifies one tracked entity.
type EntityId struct {
	Kind string
	Id   string
}

// Delta holds one incremental change to the cluster's entity graph.
// On the wire it is a three-element array [kind, verb, fields] where
// verb is "change" or "remove".
type Delta struct {
	// If Removed is true, the entity has been removed; otherwise it
	// has been created or changed.
	Removed bool
	// Entity holds the data about the entity that has changed.
	Entity EntityInfo
}

// UnknownEntityKindError is returned when a delta names an entity kind
// that this package does not recognise. Callers are expected to skip
// the offending delta rather than fail the whole batch.
type UnknownEntityKindError struct {
	Kind string
}

func (e *UnknownEntityKindError) Error() string {
	return fmt.Sprintf("unknown entity kind %q", e.Kind)
}

// IsUnknownEntityKind reports whether err was caused by a delta
// carrying an unrecognised entity kind.
func IsUnknownEntityKind(err error) bool {
	_, ok := errors.Cause(err).(*UnknownEntityKindError)
	return ok
}

// MarshalJSON implements json.Marshaler.
func (d *Delta) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(d.Entity)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	verb := "change"
	if d.Removed {
		verb = "remove"
	}
	fmt.Fprintf(&buf, "%q,%q,", d.Entity.EntityId().Kind, verb)
	buf.Write(b)
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Delta) UnmarshalJSON(data []byte) error {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return errors.Trace(err)
	}
	if len(elements) != 3 {
		return errors.Errorf("expected 3 elements in delta, got %d", len(elements))
	}
	var entityKind, verb string
	if err := json.Unmarshal(elements[0], &entityKind); err != nil {
		return errors.Trace(err)
	}
	if err := json.Unmarshal(elements[1], &verb); err != nil {
		return errors.Trace(err)
	}
	switch verb {
	case "remove":
		d.Removed = true
	case "change":
	default:
		return errors.Errorf("unexpected delta verb %q", verb)
	}
	switch entityKind {
	case "machine":
		d.Entity = new(MachineInfo)
	case "application", "service":
		// Older servers report applications under the kind "service".
		d.Entity = new(ApplicationInfo)
	case "unit":
		d.Entity = new(UnitInfo)
	case "annotation":
		d.Entity = new(AnnotationInfo)
	default:
		return &UnknownEntityKindError{Kind: entityKind}
	}
	return json.Unmarshal(elements[2], d.Entity)
}

// MachineInfo holds the information a delta reports about a machine.
type MachineInfo struct {
	Id         string
	InstanceId string
	Status     string
	StatusInfo string
	Life       Life
	Series     string
}

// EntityId returns a unique identifier for the machine.
func (i *MachineInfo) EntityId() EntityId {
	return EntityId{Kind: "machine", Id: i.Id}
}

// ApplicationInfo holds the information a delta reports about an
// application.
type ApplicationInfo struct {
	Name     string
	Exposed  bool
	CharmURL string
	Life     Life
	MinUnits int
	Config   map[string]interface{}
}

// EntityId returns a unique identifier for the application.
func (i *ApplicationInfo) EntityId() EntityId {
	return EntityId{Kind: "application", Id: i.Name}
}

// UnitInfo holds the information a delta reports about a unit.
type UnitInfo struct {
	Name           string
	Service        string
	CharmURL       string
	MachineId      string
	PublicAddress  string
	PrivateAddress string
	Status         string
	StatusInfo     string
}

// EntityId returns a unique identifier for the unit.
func (i *UnitInfo) EntityId() EntityId {
	return EntityId{Kind: "unit", Id: i.Name}
}

// AnnotationInfo holds the information a delta reports about a set of
// annotations.
type AnnotationInfo struct {
	Tag         string
	Annotations map[string]string
}

// EntityId returns a unique identifier for the annotated entity.
func (i *AnnotationInfo) EntityId() EntityId {
	return EntityId{Kind: "annotation", Id: i.Tag}
}
