package devicetracker

import "github.com/sensorcore/devicetracker/internal/element"

// Tag is the user-settable, dirty-tracked string of spec §3.2's tag field.
// It implements element.Complex so the device schema can hand out a fresh
// instance per device via Schema.GetInstance.
type Tag struct {
	element.Base
	value string
}

// NewTag constructs a defaulted (empty) tag under field id id.
func NewTag(id element.FieldID) *Tag {
	return &Tag{Base: element.NewBase(id, "tag", element.KindComplex)}
}

// CloneType implements element.Complex.
func (t *Tag) CloneType(id element.FieldID) element.Complex {
	return NewTag(id)
}

func (t *Tag) Get() string { return t.value }

func (t *Tag) Set(v string) {
	if v == t.value {
		return
	}
	t.value = v
	t.SetDirty(true)
}
