package listview

// Collection is the borrowed, index-addressed row storage a List operates on.
// The list never keeps references to elements beyond a single call.
type Collection[T any] interface {
	Len() int
	At(i int) T
	Set(i int, v T)
	Insert(i int, v T)
	Remove(i int)
}

// SliceCollection adapts a slice owned by the caller.
type SliceCollection[T any] struct {
	Items []T
}

func NewSliceCollection[T any](items []T) *SliceCollection[T] {
	return &SliceCollection[T]{Items: items}
}

func (s *SliceCollection[T]) Len() int { return len(s.Items) }

func (s *SliceCollection[T]) At(i int) T { return s.Items[i] }

func (s *SliceCollection[T]) Set(i int, v T) { s.Items[i] = v }

func (s *SliceCollection[T]) Insert(i int, v T) {
	if i < 0 {
		i = 0
	}
	if i > len(s.Items) {
		i = len(s.Items)
	}
	var zero T
	s.Items = append(s.Items, zero)
	copy(s.Items[i+1:], s.Items[i:])
	s.Items[i] = v
}

func (s *SliceCollection[T]) Remove(i int) {
	if i < 0 || i >= len(s.Items) {
		return
	}
	s.Items = append(s.Items[:i], s.Items[i+1:]...)
}

// MoveElement moves the element at from to index to, shifting the elements in
// between by one and keeping the relative order of everything else.
func MoveElement[T any](c Collection[T], from, to int) {
	n := c.Len()
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return
	}
	moved := c.At(from)
	if from < to {
		for i := from; i < to; i++ {
			c.Set(i, c.At(i+1))
		}
	} else {
		for i := from; i > to; i-- {
			c.Set(i, c.At(i-1))
		}
	}
	c.Set(to, moved)
}
