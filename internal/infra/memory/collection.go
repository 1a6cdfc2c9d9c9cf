package memory

import "strconv"

// collection keeps records in insertion order and hands out numeric string ids.
// It is not safe for concurrent use; Store serializes access.
type collection[T any] struct {
	items map[string]T
	order []string
	next  uint64
}

func newCollection[T any]() *collection[T] {
	return &collection[T]{
		items: make(map[string]T),
		order: make([]string, 0),
	}
}

// nextID never returns an id that was handed out before, even after deletes.
func (c *collection[T]) nextID() string {
	c.next++
	return strconv.FormatUint(c.next, 10)
}

// observeID advances the counter past ids that were assigned elsewhere (seed data, snapshots).
func (c *collection[T]) observeID(id string) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return
	}
	if n > c.next {
		c.next = n
	}
}

// set overwrites in place when id already exists, otherwise appends.
func (c *collection[T]) set(id string, item T) {
	if _, exists := c.items[id]; !exists {
		c.order = append(c.order, id)
	}
	c.items[id] = item
}

func (c *collection[T]) get(id string) (T, bool) {
	item, ok := c.items[id]
	return item, ok
}

func (c *collection[T]) remove(id string) bool {
	if _, exists := c.items[id]; !exists {
		return false
	}
	delete(c.items, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

func (c *collection[T]) list() []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

func (c *collection[T]) filter(match func(T) bool) []T {
	out := make([]T, 0)
	for _, id := range c.order {
		if match(c.items[id]) {
			out = append(out, c.items[id])
		}
	}
	return out
}

func (c *collection[T]) count() int {
	return len(c.order)
}

func (c *collection[T]) reset() {
	c.items = make(map[string]T)
	c.order = make([]string, 0)
	c.next = 0
}
