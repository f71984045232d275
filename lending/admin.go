package lending

import (
	"time"

	"librarian/catalog"
	"librarian/ledger"
	"librarian/member"
	"librarian/notify"
)

// Admin and reporting surface. These either delegate to the catalog
// and directory or read the ledger; they never bypass the invariants
// the mutating operations maintain.

// AddBook inserts the book into the catalog and returns its id.
func (c *Coordinator) AddBook(b *catalog.Book) (int64, error) {
	id, err := c.catalog.Insert(b)
	if err != nil {
		return 0, err
	}
	c.log.Info().Int64("book", id).Str("title", b.Title()).Msg("book added")
	return id, nil
}

// RemoveBook deletes the book from the catalog. Removal is refused
// while the book is borrowed or reserved.
func (c *Coordinator) RemoveBook(id int64) error {
	if err := c.catalog.Remove(id); err != nil {
		return err
	}
	c.log.Info().Int64("book", id).Msg("book removed")
	return nil
}

// SetBookStatus applies an administrative status override (for lost,
// damaged or maintenance handling). Borrowed books cannot be
// overridden while the loan is open. An override back to Available
// settles as Reserved while reservations are pending, so the queue
// keeps its priority.
func (c *Coordinator) SetBookStatus(id int64, status catalog.Status) error {
	b, err := c.catalog.Get(id)
	if err != nil {
		return err
	}
	if b.Status() == catalog.Borrowed {
		return ErrBookUnavailable
	}
	if status == catalog.Available && b.HasReservations() {
		status = catalog.Reserved
	}
	b.SetStatus(status)
	c.log.Info().Int64("book", id).Stringer("status", status).Msg("book status override")
	return nil
}

// RegisterMember registers a new member account.
func (c *Coordinator) RegisterMember(username, password, fullName, email string, tier member.Tier) (*member.Member, error) {
	m, err := c.members.Register(username, password, fullName, email, tier)
	if err != nil {
		return nil, err
	}
	c.log.Info().Str("member", username).Str("tier", string(tier)).Msg("member registered")
	return m, nil
}

// Authenticate verifies a member's credentials through the directory.
func (c *Coordinator) Authenticate(username, password string) (*member.Member, error) {
	m, err := c.members.Authenticate(username, password)
	if err != nil {
		c.log.Debug().Str("member", username).Err(err).Msg("authentication failed")
		return nil, err
	}
	return m, nil
}

// SetMemberTier changes the member's account classification. The new
// tier's policy applies to subsequent borrows; open loans keep their
// due dates.
func (c *Coordinator) SetMemberTier(username string, tier member.Tier) error {
	if err := c.members.SetTier(username, tier); err != nil {
		return err
	}
	c.log.Info().Str("member", username).Str("tier", string(tier)).Msg("member tier changed")
	return nil
}

// ReactivateMember re-enables a locked account.
func (c *Coordinator) ReactivateMember(username string) error {
	return c.members.Reactivate(username)
}

// Announce sends a general announcement to the member.
func (c *Coordinator) Announce(username, message string) error {
	if _, err := c.members.Get(username); err != nil {
		return err
	}
	c.notifier.Notify(username, message, notify.GeneralAnnouncement)
	return nil
}

// Book returns the catalog entry with the given id.
func (c *Coordinator) Book(id int64) (*catalog.Book, error) { return c.catalog.Get(id) }

// Books returns the catalog ordered by id.
func (c *Coordinator) Books() []*catalog.Book { return c.catalog.All() }

// Member returns the member with the given username.
func (c *Coordinator) Member(username string) (*member.Member, error) { return c.members.Get(username) }

// Members returns all members ordered by username.
func (c *Coordinator) Members() []*member.Member { return c.members.All() }

// MemberHistory returns the member's ledger entries, oldest first.
func (c *Coordinator) MemberHistory(username string) ([]ledger.Transaction, error) {
	return c.ledger.MemberHistory(username)
}

// BookHistory returns the book's ledger entries, oldest first.
func (c *Coordinator) BookHistory(bookID int64) ([]ledger.Transaction, error) {
	return c.ledger.BookHistory(bookID)
}

// OverdueLoan is one row of the overdue report.
type OverdueLoan struct {
	Username    string
	BookID      int64
	DueDate     time.Time
	DaysOverdue int
	AccruedFee  float64
}

// Overdue reports every open loan past its due date as of today.
func (c *Coordinator) Overdue() ([]OverdueLoan, error) {
	open, err := c.ledger.OpenBorrows()
	if err != nil {
		return nil, err
	}

	today := c.clock.Today()
	var out []OverdueLoan
	for _, tx := range open {
		days := DaysBetween(tx.DueDate, today)
		if days <= 0 {
			continue
		}
		out = append(out, OverdueLoan{
			Username:    tx.Username,
			BookID:      tx.BookID,
			DueDate:     tx.DueDate,
			DaysOverdue: days,
			AccruedFee:  float64(days) * c.rules.LateFeePerDay,
		})
	}
	return out, nil
}

// Stats summarizes the library for the admin dashboard.
type Stats struct {
	Books         int
	Members       int
	ByStatus      map[catalog.Status]int
	TotalBorrows  int
	ActiveMembers int
}

// Stats builds the admin summary from catalog and directory state.
func (c *Coordinator) Stats() Stats {
	s := Stats{
		Books:    c.catalog.Len(),
		Members:  c.members.Len(),
		ByStatus: c.catalog.CountByStatus(),
	}
	for _, b := range c.catalog.All() {
		s.TotalBorrows += b.BorrowCount()
	}
	for _, m := range c.members.All() {
		if m.Active() {
			s.ActiveMembers++
		}
	}
	return s
}

// MostBorrowed returns up to n books ranked by borrow count.
func (c *Coordinator) MostBorrowed(n int) []*catalog.Book {
	return c.catalog.MostBorrowed(n)
}
