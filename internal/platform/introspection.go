package platform

import (
	"github.com/aretw0/introspection"
)

// DiaryState aggregates the state of every component.
type DiaryState struct {
	Root    string `json:"root"`
	Config  Config `json:"config"`
	Gateway any    `json:"gateway"`
	Store   any    `json:"store,omitempty"`
	Seeder  any    `json:"seeder"`
}

// State implements introspection.Introspectable.
func (d *Diary) State() any {
	st := DiaryState{
		Root:    d.Root,
		Config:  d.config,
		Gateway: d.gateway.State(),
		Seeder:  d.seeder.State(),
	}
	if intro, ok := d.gateway.Backend().(introspection.Introspectable); ok {
		st.Store = intro.State()
	}
	return st
}

// ComponentType implements introspection.Component.
func (d *Diary) ComponentType() string {
	return "diary"
}

var _ introspection.Introspectable = (*Diary)(nil)
var _ introspection.Component = (*Diary)(nil)
