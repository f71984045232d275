package catalog

import (
	"errors"
	"sort"
)

// Errors returned by Catalog operations.
var (
	// ErrCapacityExceeded is returned when the catalog is full.
	ErrCapacityExceeded = errors.New("catalog capacity exceeded")

	// ErrBookNotFound is returned when no entry has the given id.
	ErrBookNotFound = errors.New("book not found")

	// ErrBookInUse is returned when removing a book that is borrowed
	// or reserved.
	ErrBookInUse = errors.New("book is currently borrowed or reserved")
)

// Catalog holds the library's books and assigns their ids.
type Catalog struct {
	books    map[int64]*Book
	nextID   int64
	capacity int
}

// New returns an empty catalog that holds at most capacity books.
func New(capacity int) *Catalog {
	return &Catalog{
		books:    make(map[int64]*Book),
		nextID:   1,
		capacity: capacity,
	}
}

// Insert assigns the next id to the book and adds it to the catalog.
func (c *Catalog) Insert(b *Book) (int64, error) {
	if len(c.books) >= c.capacity {
		return 0, ErrCapacityExceeded
	}
	b.id = c.nextID
	c.nextID++
	c.books[b.id] = b
	return b.id, nil
}

// Get returns the book with the given id.
func (c *Catalog) Get(id int64) (*Book, error) {
	b, ok := c.books[id]
	if !ok {
		return nil, ErrBookNotFound
	}
	return b, nil
}

// Remove deletes the book. Removal is refused while the book is
// borrowed or has pending reservations.
func (c *Catalog) Remove(id int64) error {
	b, ok := c.books[id]
	if !ok {
		return ErrBookNotFound
	}
	if b.status == Borrowed || b.HasReservations() {
		return ErrBookInUse
	}
	delete(c.books, id)
	return nil
}

// ConsumeReservation pops the member from the head of the book's
// queue, restoring Available when nobody else is waiting. It reports
// whether the member was first in line.
func (c *Catalog) ConsumeReservation(id int64, username string) bool {
	b, ok := c.books[id]
	if !ok {
		return false
	}
	if !b.takeReservation(username) {
		return false
	}
	if len(b.reservedBy) == 0 && b.status == Reserved {
		b.status = Available
	}
	return true
}

// Len returns the number of books in the catalog.
func (c *Catalog) Len() int { return len(c.books) }

// All returns every book ordered by id.
func (c *Catalog) All() []*Book {
	out := make([]*Book, 0, len(c.books))
	for _, b := range c.books {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// CountByStatus tallies books per availability status.
func (c *Catalog) CountByStatus() map[Status]int {
	counts := make(map[Status]int)
	for _, b := range c.books {
		counts[b.status]++
	}
	return counts
}

// MostBorrowed returns up to n books ranked by borrow count.
func (c *Catalog) MostBorrowed(n int) []*Book {
	out := c.All()
	sort.SliceStable(out, func(i, j int) bool { return out[i].borrowCount > out[j].borrowCount })
	if len(out) > n {
		out = out[:n]
	}
	return out
}
