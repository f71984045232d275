// Package lending orchestrates the lending lifecycle across the
// catalog, the member directory and the transaction ledger. The
// Coordinator is the sole mutation path for lending state; catalog
// and member records must not be mutated around it, or the three
// stores drift apart.
package lending

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"librarian/catalog"
	"librarian/ledger"
	"librarian/member"
	"librarian/notify"
)

// Coordinator validates lending requests against book and member
// state, applies the mutations on both sides and appends the ledger
// entry. Every operation is atomic from the caller's perspective.
type Coordinator struct {
	catalog  *catalog.Catalog
	members  *member.Directory
	ledger   *ledger.Store
	notifier notify.Sink
	clock    Clock
	rules    Rules
	log      zerolog.Logger
}

// New wires a Coordinator from its collaborators.
func New(cat *catalog.Catalog, members *member.Directory, store *ledger.Store, sink notify.Sink, clock Clock, rules Rules, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		catalog:  cat,
		members:  members,
		ledger:   store,
		notifier: sink,
		clock:    clock,
		rules:    rules,
		log:      logger,
	}
}

// activeMember resolves the username to an active account.
func (c *Coordinator) activeMember(username string) (*member.Member, error) {
	m, err := c.members.Get(username)
	if err != nil {
		return nil, err
	}
	if !m.Active() {
		return nil, member.ErrInactiveAccount
	}
	return m, nil
}

// Borrow checks the member and the book, computes the due date from
// the member's tier and records the loan on all three sides. The due
// date is returned for display.
//
// A Reserved book can only be borrowed by the head of its reservation
// queue; the reservation is consumed by the borrow.
func (c *Coordinator) Borrow(username string, bookID int64) (time.Time, error) {
	m, err := c.activeMember(username)
	if err != nil {
		return time.Time{}, err
	}
	b, err := c.catalog.Get(bookID)
	if err != nil {
		return time.Time{}, err
	}

	fromReservation := false
	switch b.Status() {
	case catalog.Available:
	case catalog.Reserved:
		if b.NextReserver() != username {
			return time.Time{}, ErrBookReserved
		}
		fromReservation = true
	default:
		return time.Time{}, ErrBookUnavailable
	}

	policy := c.rules.PolicyFor(m.Tier())
	if m.LoanCount() >= policy.BorrowLimit {
		return time.Time{}, fmt.Errorf("%w (%d books)", ErrBorrowLimitReached, policy.BorrowLimit)
	}
	if m.HasLoan(bookID) {
		return time.Time{}, ErrDuplicateBorrow
	}

	today := c.clock.Today()
	// Due dates are calendar dates; the loan record and the ledger
	// column must carry the same value.
	due := dateOf(today).AddDate(0, 0, policy.LoanDays)

	// The ledger append is the only fallible effect; entity state is
	// only touched once it has succeeded.
	if _, err := c.ledger.RecordBorrow(username, bookID, today, due); err != nil {
		return time.Time{}, err
	}

	if fromReservation {
		c.catalog.ConsumeReservation(bookID, username)
		m.RemoveReservation(bookID)
	}
	b.RecordBorrow()
	m.AddLoan(bookID, today, due)

	c.log.Info().
		Str("member", username).
		Int64("book", bookID).
		Time("due", due).
		Msg("book borrowed")
	return due, nil
}

// Return removes the loan from the member, closes the open ledger
// entry with any late fee, and settles the book's next state. When
// reservations are pending the book stays Reserved and the member
// first in line is notified; otherwise it becomes Available.
// The late fee charged is returned.
func (c *Coordinator) Return(username string, bookID int64) (float64, error) {
	m, err := c.activeMember(username)
	if err != nil {
		return 0, err
	}
	b, err := c.catalog.Get(bookID)
	if err != nil {
		return 0, err
	}
	if !m.HasLoan(bookID) {
		return 0, ErrNotBorrowed
	}

	tx, err := c.ledger.OpenBorrow(username, bookID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrNotBorrowed, err)
	}

	today := c.clock.Today()
	var fee float64
	if late := DaysBetween(tx.DueDate, today); late > 0 {
		fee = float64(late) * c.rules.LateFeePerDay
	}

	if err := c.ledger.MarkReturned(tx.ID, today, fee); err != nil {
		return 0, err
	}

	m.RemoveLoan(bookID)
	if fee > 0 {
		m.AddBalance(fee)
	}

	b.RecordReturn()
	if b.HasReservations() {
		// Reservation priority is the coordinator's decision, not the
		// book's: the earliest reservation keeps the book off the shelf.
		b.SetStatus(catalog.Reserved)
		next := b.NextReserver()
		c.notifier.Notify(next,
			fmt.Sprintf("The book you reserved (ID: %d) is now available.", bookID),
			notify.ReservationAvailable)
	}

	c.log.Info().
		Str("member", username).
		Int64("book", bookID).
		Float64("late_fee", fee).
		Msg("book returned")
	return fee, nil
}

// Reserve places the member in the book's reservation queue and
// mirrors the reservation on the member and in the ledger.
func (c *Coordinator) Reserve(username string, bookID int64) error {
	m, err := c.activeMember(username)
	if err != nil {
		return err
	}
	b, err := c.catalog.Get(bookID)
	if err != nil {
		return err
	}
	if m.HasLoan(bookID) {
		return ErrDuplicateBorrow
	}

	if err := b.Reserve(username); err != nil {
		return err
	}
	m.AddReservation(bookID)

	if _, err := c.ledger.RecordReserve(username, bookID, c.clock.Today()); err != nil {
		// Undo both mirrors so the ledger stays authoritative.
		b.CancelReservation(username)
		m.RemoveReservation(bookID)
		return err
	}

	c.log.Info().Str("member", username).Int64("book", bookID).Msg("book reserved")
	return nil
}

// CancelReservation removes the member from the queue on both sides
// and records the cancellation.
func (c *Coordinator) CancelReservation(username string, bookID int64) error {
	m, err := c.activeMember(username)
	if err != nil {
		return err
	}
	b, err := c.catalog.Get(bookID)
	if err != nil {
		return err
	}

	if err := b.CancelReservation(username); err != nil {
		return err
	}
	m.RemoveReservation(bookID)

	if _, err := c.ledger.RecordCancel(username, bookID, c.clock.Today()); err != nil {
		b.Reserve(username)
		m.AddReservation(bookID)
		return err
	}

	c.log.Info().Str("member", username).Int64("book", bookID).Msg("reservation cancelled")
	return nil
}

// Renew extends the open borrow's due date by the configured renewal
// period, counted from the current due date. The member's loan record
// is updated in step with the ledger. The new due date is returned.
func (c *Coordinator) Renew(username string, bookID int64) (time.Time, error) {
	m, err := c.activeMember(username)
	if err != nil {
		return time.Time{}, err
	}

	tx, err := c.ledger.OpenBorrow(username, bookID)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrNotRenewable, err)
	}

	due := tx.DueDate.AddDate(0, 0, c.rules.RenewalDays)
	if err := c.ledger.Renew(tx.ID, due, c.clock.Today()); err != nil {
		return time.Time{}, err
	}
	m.SetLoanDue(bookID, due)

	c.log.Info().
		Str("member", username).
		Int64("book", bookID).
		Time("due", due).
		Msg("loan renewed")
	return due, nil
}

// SweepDueDates scans the open borrows and emits a due-soon reminder
// for loans due tomorrow and an overdue notice for loans past due.
// It is read-only over the ledger and returns the number of notices
// sent.
func (c *Coordinator) SweepDueDates() (int, error) {
	open, err := c.ledger.OpenBorrows()
	if err != nil {
		return 0, err
	}

	today := c.clock.Today()
	sent := 0
	for _, tx := range open {
		remaining := DaysBetween(today, tx.DueDate)
		switch {
		case remaining == 1:
			c.notifier.Notify(tx.Username,
				fmt.Sprintf("Your borrowed book (ID: %d) is due tomorrow.", tx.BookID),
				notify.DueDateReminder)
			sent++
		case remaining < 0:
			c.notifier.Notify(tx.Username,
				fmt.Sprintf("Your borrowed book (ID: %d) is overdue by %d days.", tx.BookID, -remaining),
				notify.OverdueNotice)
			sent++
		}
	}

	c.log.Debug().Int("open_loans", len(open)).Int("notices", sent).Msg("due-date sweep")
	return sent, nil
}
