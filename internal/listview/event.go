package listview

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

// Key identifies the keys the list reacts to.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyDelete
	KeyBackspace
	KeyEscape
)

// Modifiers is a bitmask of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModAlt
	ModCtrl
	ModCommand
)

// Event is one input event delivered to a list. Coordinates are in the same
// space as the bounds passed to Render.
type Event interface{ isEvent() }

type PointerDown struct {
	X, Y   float64
	Button Button
}

type PointerMove struct {
	X, Y float64
}

type PointerUp struct {
	X, Y   float64
	Button Button
}

type KeyPress struct {
	Key       Key
	Modifiers Modifiers
}

// FocusLost forces the list to drop keyboard focus and input capture, which
// cancels any drag in progress.
type FocusLost struct{}

func (PointerDown) isEvent() {}
func (PointerMove) isEvent() {}
func (PointerUp) isEvent()   {}
func (KeyPress) isEvent()    {}
func (FocusLost) isEvent()   {}
