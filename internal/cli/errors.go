package cli

import (
	"errors"
	"fmt"

	"rowlist/internal/store"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

type indexRangeError struct {
	index int
	count int
}

func (e indexRangeError) Error() string {
	if e.count == 0 {
		return fmt.Sprintf("index %d out of range: list is empty", e.index)
	}
	return fmt.Sprintf("index %d out of range [0, %d]", e.index, e.count-1)
}

func errIndexRange(index, count int) error {
	return indexRangeError{index: index, count: count}
}

// storeErr turns store not-found errors into notFoundError for kind/id.
func storeErr(kind, id string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return errNotFound(kind, id)
	}
	return err
}
