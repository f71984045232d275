package lending

import (
	"errors"
	"fmt"
)

// Typed outcomes of coordinator operations. All are recoverable by
// the caller. Book- and member-level failures (invalid ISBN, capacity,
// reservation errors, inactive accounts) surface as the catalog and
// member package sentinels.
var (
	// ErrBookUnavailable is returned when borrowing a book that is not
	// available to the caller.
	ErrBookUnavailable = errors.New("book is not available for borrowing")

	// ErrBookReserved wraps ErrBookUnavailable with the reservation
	// hint: the book is held for members already in the queue.
	ErrBookReserved = fmt.Errorf("%w (reserved; place a reservation to join the queue)", ErrBookUnavailable)

	// ErrBorrowLimitReached is returned when the member is at the
	// borrow limit for their tier.
	ErrBorrowLimitReached = errors.New("borrow limit reached")

	// ErrDuplicateBorrow is returned when the member already holds the
	// book.
	ErrDuplicateBorrow = errors.New("book already borrowed by this member")

	// ErrNotBorrowed is returned on returning a book the member does
	// not hold.
	ErrNotBorrowed = errors.New("book not borrowed by this member")

	// ErrNotRenewable is returned when no open borrow exists to renew.
	ErrNotRenewable = errors.New("no open borrow to renew")
)
