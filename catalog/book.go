package catalog

import (
	"errors"
	"fmt"
)

// Status is the availability state of a catalog entry.
type Status int

const (
	Available Status = iota
	Borrowed
	Reserved
	Lost
	Damaged
	UnderMaintenance
)

// String returns the display name of the status.
func (s Status) String() string {
	switch s {
	case Available:
		return "Available"
	case Borrowed:
		return "Borrowed"
	case Reserved:
		return "Reserved"
	case Lost:
		return "Lost"
	case Damaged:
		return "Damaged"
	case UnderMaintenance:
		return "Under Maintenance"
	default:
		return "Unknown"
	}
}

// Errors returned by Book operations.
var (
	// ErrInvalidISBN is returned when an ISBN is not 10 or 13 digits.
	ErrInvalidISBN = errors.New("ISBN must be 10 or 13 digits")

	// ErrAlreadyReserved is returned when the member already holds a
	// reservation for the book.
	ErrAlreadyReserved = errors.New("book already reserved by this member")

	// ErrNotAvailable is returned when the book cannot take
	// reservations in its current state.
	ErrNotAvailable = errors.New("book is not available for reservation")

	// ErrNoSuchReservation is returned when cancelling a reservation
	// that does not exist.
	ErrNoSuchReservation = errors.New("no reservation found for this member")
)

// Book is a single catalog entry. Its status and reservation queue
// are only mutated through the lending coordinator; outside callers
// read through the accessor methods.
type Book struct {
	id     int64
	isbn   string
	title  string
	author string

	status      Status
	reservedBy  []string // FIFO queue, insertion order is borrow priority
	borrowCount int

	kind  Kind
	attrs Attrs
}

// NewBook validates the ISBN and builds a catalog entry in the
// Available state. The id is assigned on catalog insertion.
func NewBook(title, author, isbn string, attrs Attrs) (*Book, error) {
	if !validISBN(isbn) {
		return nil, ErrInvalidISBN
	}
	return &Book{
		isbn:   isbn,
		title:  title,
		author: author,
		status: Available,
		kind:   attrs.kind(),
		attrs:  attrs,
	}, nil
}

func validISBN(isbn string) bool {
	if len(isbn) != 10 && len(isbn) != 13 {
		return false
	}
	for _, c := range isbn {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func (b *Book) ID() int64        { return b.id }
func (b *Book) ISBN() string     { return b.isbn }
func (b *Book) Title() string    { return b.title }
func (b *Book) Author() string   { return b.author }
func (b *Book) Status() Status   { return b.status }
func (b *Book) BorrowCount() int { return b.borrowCount }
func (b *Book) Kind() Kind       { return b.kind }
func (b *Book) Attrs() Attrs     { return b.attrs }

// ReadingTime estimates the reading time in minutes from the kind's
// behavior table.
func (b *Book) ReadingTime() int {
	return kindBehavior[b.kind].readingTime(b.attrs)
}

// ReservedBy returns a copy of the reservation queue in priority order.
func (b *Book) ReservedBy() []string {
	out := make([]string, len(b.reservedBy))
	copy(out, b.reservedBy)
	return out
}

// HasReservations reports whether any member is waiting for the book.
func (b *Book) HasReservations() bool { return len(b.reservedBy) > 0 }

// NextReserver returns the member first in line, or "" when the queue
// is empty.
func (b *Book) NextReserver() string {
	if len(b.reservedBy) == 0 {
		return ""
	}
	return b.reservedBy[0]
}

// IsReservedBy reports whether the member holds a reservation.
func (b *Book) IsReservedBy(username string) bool {
	for _, u := range b.reservedBy {
		if u == username {
			return true
		}
	}
	return false
}

// Reserve appends the member to the reservation queue. Books that are
// lost, damaged or under maintenance cannot be reserved. A borrowed
// book keeps its Borrowed status; otherwise the first reservation
// moves the book to Reserved.
func (b *Book) Reserve(username string) error {
	switch b.status {
	case Lost, Damaged, UnderMaintenance:
		return ErrNotAvailable
	}
	if b.IsReservedBy(username) {
		return ErrAlreadyReserved
	}
	b.reservedBy = append(b.reservedBy, username)
	if b.status != Borrowed {
		b.status = Reserved
	}
	return nil
}

// CancelReservation removes the member from the queue. When the queue
// empties and the book is not borrowed, it returns to Available.
func (b *Book) CancelReservation(username string) error {
	for i, u := range b.reservedBy {
		if u == username {
			b.reservedBy = append(b.reservedBy[:i], b.reservedBy[i+1:]...)
			if len(b.reservedBy) == 0 && b.status == Reserved {
				b.status = Available
			}
			return nil
		}
	}
	return ErrNoSuchReservation
}

// RecordBorrow transitions the book to Borrowed and bumps the borrow
// counter. The coordinator validates availability before calling.
func (b *Book) RecordBorrow() {
	b.borrowCount++
	b.status = Borrowed
}

// RecordReturn transitions the book back to Available. The coordinator
// re-checks the reservation queue afterwards and may move the book to
// Reserved instead.
func (b *Book) RecordReturn() {
	b.status = Available
}

// takeReservation pops the member from the queue head. The catalog
// package keeps this internal so only the coordinator's borrow path
// (via Catalog.ConsumeReservation) can consume priority.
func (b *Book) takeReservation(username string) bool {
	if b.NextReserver() != username {
		return false
	}
	b.reservedBy = b.reservedBy[1:]
	return true
}

// SetStatus applies an administrative status override (lost, damaged,
// maintenance, or back to available).
func (b *Book) SetStatus(s Status) {
	b.status = s
}

// Display returns the one-line listing used by the shell.
func (b *Book) Display() string {
	return fmt.Sprintf("%-5d %-35s %-25s %-12s %s", b.id, b.title, b.author, b.kind.Label(), b.status)
}
