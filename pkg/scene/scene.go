package scene

import "slices"

// Scene is the two-tier object model: one optional background shape and
// an ordered stack of icons (first = bottom). It is not safe for concurrent
// use; [Controller] serializes access.
type Scene struct {
	Width, Height float64

	background *Shape
	icons      []*Icon
}

// New creates an empty scene with the given canvas size.
func New(width, height float64) *Scene {
	return &Scene{Width: width, Height: height}
}

// Background returns the background shape or nil.
func (s *Scene) Background() *Shape { return s.background }

// SetBackground replaces the background shape and returns the previous one.
// The background always sits beneath every icon, so icon order is untouched.
func (s *Scene) SetBackground(sh *Shape) *Shape {
	prev := s.background
	s.background = sh
	return prev
}

// Icons returns the icons in draw order. The slice is a copy; the icons are not.
func (s *Scene) Icons() []*Icon { return slices.Clone(s.icons) }

// Icon looks up an icon by ID.
func (s *Scene) Icon(id string) (*Icon, bool) {
	if i := s.index(id); i >= 0 {
		return s.icons[i], true
	}
	return nil, false
}

// Add inserts an icon on top of all existing objects.
func (s *Scene) Add(i *Icon) {
	s.icons = append(s.icons, i)
}

// Remove deletes the icon with the given ID. It reports whether it existed.
func (s *Scene) Remove(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.icons = slices.Delete(s.icons, i, i+1)
	return true
}

// BringToFront moves the icon to the top of the stack.
func (s *Scene) BringToFront(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	icon := s.icons[i]
	s.icons = append(slices.Delete(s.icons, i, i+1), icon)
	return true
}

// Len returns the number of objects, background included.
func (s *Scene) Len() int {
	n := len(s.icons)
	if s.background != nil {
		n++
	}
	return n
}

// Center returns the canvas center.
func (s *Scene) Center() (float64, float64) {
	return s.Width / 2, s.Height / 2
}

func (s *Scene) index(id string) int {
	return slices.IndexFunc(s.icons, func(i *Icon) bool { return i.ID == id })
}

// Snapshot is an immutable deep copy of the scene for rendering and export.
type Snapshot struct {
	Width, Height float64
	Background    *Shape
	Icons         []*Icon
	ActiveID      string
	Revision      uint64
}

// Active returns the active icon within the snapshot, or nil.
func (s Snapshot) Active() *Icon {
	for _, i := range s.Icons {
		if i.ID == s.ActiveID {
			return i
		}
	}
	return nil
}

func (s *Scene) snapshot() Snapshot {
	snap := Snapshot{Width: s.Width, Height: s.Height}
	if s.background != nil {
		bg := *s.background
		snap.Background = &bg
	}
	snap.Icons = make([]*Icon, len(s.icons))
	for i, icon := range s.icons {
		snap.Icons[i] = icon.copyIcon()
	}
	return snap
}
