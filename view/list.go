package view

import (
	"fmt"
	"iter"
)

// List is a linked list of struct instances chained through a pointer field.
//
// A List holds no cursor: every traversal starts again at the head. Traversals stop at
// a null pointer, at a dangling pointer, after the context's list limit, or when an
// element repeats.
type List struct {
	head  View
	next  string
	limit int
}

// NewList returns the list starting at head and following the next field.
func NewList(head View, next string) List {
	l := List{head: head, next: next}
	if head.ctx != nil {
		l.limit = head.ctx.listLimit
	}

	return l
}

// WithLimit returns a copy of the list with a different traversal bound.
func (l List) WithLimit(n int) List {
	l.limit = n
	return l
}

// Head returns the first element; it is invalid for an empty list.
func (l List) Head() View { return l.head }

// All yields the elements in list order. Truncation is reported to the context's
// diagnostics handler; use Collect to receive it as an error.
func (l List) All() iter.Seq[View] {
	return func(yield func(View) bool) {
		_ = l.walk(yield)
	}
}

// Collect returns the elements in list order. On a truncated traversal it returns the
// elements visited so far together with the diagnostic.
func (l List) Collect() ([]View, error) {
	var out []View
	err := l.walk(func(v View) bool {
		out = append(out, v)
		return true
	})

	return out, err
}

// Len counts the elements.
func (l List) Len() int {
	n := 0
	for range l.All() {
		n++
	}

	return n
}

func (l List) walk(yield func(View) bool) error {
	cur := l.head
	if !cur.Valid() {
		return nil
	}

	seen := make(map[int]struct{})
	for steps := 0; cur.Valid(); steps++ {
		if steps >= l.limit {
			return cur.diagnose(KindListTruncated, l.next, cur.Address(),
				fmt.Sprintf("exceeded %d elements", l.limit))
		}
		if _, dup := seen[cur.pos]; dup {
			return cur.diagnose(KindListTruncated, l.next, cur.Address(),
				fmt.Sprintf("cycle after %d elements", steps))
		}
		seen[cur.pos] = struct{}{}

		if !yield(cur) {
			return nil
		}

		next, err := cur.Pointer(l.next)
		if err != nil {
			return err
		}
		cur = next
	}

	return nil
}

// ListBase returns the list whose head is the first pointer of a ListBase member of v.
// Elements are chained through their "next" field.
func ListBase(v View, field string) (List, error) {
	base, err := v.Embedded(field)
	if err != nil {
		return List{}, err
	}
	first, err := base.Pointer("first")
	if err != nil {
		return List{}, err
	}

	return NewList(first, "next"), nil
}

// ListBaseOf is ListBase with the element struct fixed. ListBase.first is a void
// pointer, so the head is otherwise typed by the block it points into.
func ListBaseOf(v View, field, elem string) (List, error) {
	l, err := ListBase(v, field)
	if err != nil || !l.head.Valid() {
		return l, err
	}
	if l.head, err = l.head.As(elem); err != nil {
		return List{}, err
	}

	return l, nil
}
