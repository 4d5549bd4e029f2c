package selection

import (
	"errors"
	"fmt"

	"prompt-studio/internal/catalog"
)

var ErrUnknownOption = errors.New("unknown option")

// Slot holds at most one option. The zero value is empty.
type Slot struct {
	option catalog.Option
	set    bool
}

func Filled(o catalog.Option) Slot {
	return Slot{option: o, set: true}
}

func (s Slot) Option() (catalog.Option, bool) {
	return s.option, s.set
}

func (s Slot) Empty() bool {
	return !s.set
}

// ID returns the selected option id, or "" for an empty slot.
func (s Slot) ID() string {
	if !s.set {
		return ""
	}
	return s.option.ID
}

// State maps each category to a Slot. It is a value type: copies are
// independent snapshots.
type State struct {
	slots [catalog.NumKeys]Slot
}

// Select toggles the option with the given id in category k. Selecting the
// option that is already chosen clears the slot.
func (s *State) Select(k catalog.Key, id string) error {
	opt, ok := catalog.Lookup(k, id)
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrUnknownOption, k, id)
	}
	if cur := s.slots[k]; cur.set && cur.option.ID == opt.ID {
		s.slots[k] = Slot{}
		return nil
	}
	s.slots[k] = Filled(opt)
	return nil
}

func (s *State) ApplyPreset(p catalog.Preset) {
	var next [catalog.NumKeys]Slot
	for _, k := range catalog.Keys() {
		next[k] = Filled(p.Selection[k])
	}
	s.slots = next
}

func (s *State) Reset() {
	s.slots = [catalog.NumKeys]Slot{}
}

func (s State) Get(k catalog.Key) Slot {
	if !k.Valid() {
		return Slot{}
	}
	return s.slots[k]
}

func (s State) CompletionCount() int {
	n := 0
	for _, slot := range s.slots {
		if slot.set {
			n++
		}
	}
	return n
}

func (s State) IsComplete() bool {
	return s.CompletionCount() == catalog.NumKeys
}
