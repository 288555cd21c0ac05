package testutil

import (
	"fmt"
	"sort"
	"sync"

	"estate-crm/internal/common/errs"

	"go.mongodb.org/mongo-driver/bson"
)

// Collection is an in-memory stand-in for one Mongo collection. Documents
// are keyed by their bson "_id" and returned in id order.
type Collection[T any] struct {
	mu   sync.Mutex
	docs map[string]T
}

func NewCollection[T any](docs ...T) *Collection[T] {
	c := &Collection[T]{docs: make(map[string]T)}
	for _, d := range docs {
		c.docs[idOf(d)] = d
	}
	return c
}

func (c *Collection[T]) Insert(doc T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs[idOf(doc)] = doc
}

func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.docs[id]
	return d, ok
}

func (c *Collection[T]) Find(filter bson.M) []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.docs))
	for id, d := range c.docs {
		if Matches(d, filter) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.docs[id])
	}
	return out
}

func (c *Collection[T]) FindOne(filter bson.M) (*T, error) {
	found := c.Find(filter)
	if len(found) == 0 {
		return nil, errs.ErrNotFound
	}
	return &found[0], nil
}

func (c *Collection[T]) Update(filter bson.M, updates bson.M) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, d := range c.docs {
		if Matches(d, filter) {
			if err := Apply(&d, updates); err != nil {
				return err
			}
			c.docs[id] = d
			return nil
		}
	}
	return errs.ErrNotFound
}

func (c *Collection[T]) Delete(filter bson.M) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, d := range c.docs {
		if Matches(d, filter) {
			delete(c.docs, id)
			return nil
		}
	}
	return errs.ErrNotFound
}

func idOf(doc any) string {
	id, ok := toMap(doc)["_id"]
	if !ok {
		panic("testutil: document without _id")
	}
	return fmt.Sprint(id)
}
