package catalog

import (
	"errors"
	"testing"
)

func newFictionBook(t *testing.T) *Book {
	t.Helper()
	b, err := NewBook("The Fellowship of the Ring", "J.R.R. Tolkien", "9780261103573", FictionAttrs{Pages: 423})
	if err != nil {
		t.Fatalf("new book: %v", err)
	}
	return b
}

func TestNewBookValidatesISBN(t *testing.T) {
	tests := []struct {
		name    string
		isbn    string
		wantErr bool
	}{
		{"ten digits", "0261103571", false},
		{"thirteen digits", "9780261103573", false},
		{"too short", "12345", true},
		{"eleven digits", "12345678901", true},
		{"letters", "97802611035XY", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBook("T", "A", tt.isbn, FictionAttrs{Pages: 100})
			if tt.wantErr && !errors.Is(err, ErrInvalidISBN) {
				t.Errorf("want ErrInvalidISBN, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestReserveTransitions(t *testing.T) {
	b := newFictionBook(t)

	if err := b.Reserve("alice"); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if b.Status() != Reserved {
		t.Errorf("status = %v, want Reserved", b.Status())
	}

	// Second reserver queues behind the first without changing status.
	if err := b.Reserve("bob"); err != nil {
		t.Fatalf("reserve bob: %v", err)
	}
	if got := b.NextReserver(); got != "alice" {
		t.Errorf("next reserver = %q, want alice", got)
	}

	if err := b.Reserve("alice"); !errors.Is(err, ErrAlreadyReserved) {
		t.Errorf("duplicate reserve: want ErrAlreadyReserved, got %v", err)
	}
}

func TestReserveWhileBorrowedKeepsBorrowedStatus(t *testing.T) {
	b := newFictionBook(t)
	b.RecordBorrow()

	if err := b.Reserve("alice"); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if b.Status() != Borrowed {
		t.Errorf("status = %v, want Borrowed", b.Status())
	}
	if !b.HasReservations() {
		t.Error("expected a pending reservation")
	}
}

func TestReserveUnavailableStates(t *testing.T) {
	for _, status := range []Status{Lost, Damaged, UnderMaintenance} {
		b := newFictionBook(t)
		b.SetStatus(status)
		if err := b.Reserve("alice"); !errors.Is(err, ErrNotAvailable) {
			t.Errorf("%v: want ErrNotAvailable, got %v", status, err)
		}
	}
}

func TestCancelReservation(t *testing.T) {
	b := newFictionBook(t)

	if err := b.CancelReservation("alice"); !errors.Is(err, ErrNoSuchReservation) {
		t.Errorf("want ErrNoSuchReservation, got %v", err)
	}

	b.Reserve("alice")
	if err := b.CancelReservation("alice"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if b.Status() != Available {
		t.Errorf("status = %v, want Available after last cancellation", b.Status())
	}

	// Cancel after cancel is a no-op failure.
	if err := b.CancelReservation("alice"); !errors.Is(err, ErrNoSuchReservation) {
		t.Errorf("want ErrNoSuchReservation, got %v", err)
	}
}

func TestBorrowReturnCycle(t *testing.T) {
	b := newFictionBook(t)

	b.RecordBorrow()
	if b.Status() != Borrowed {
		t.Errorf("status = %v, want Borrowed", b.Status())
	}
	if b.BorrowCount() != 1 {
		t.Errorf("borrow count = %d, want 1", b.BorrowCount())
	}

	b.RecordReturn()
	if b.Status() != Available {
		t.Errorf("status = %v, want Available", b.Status())
	}
}

func TestReservedStatusInvariant(t *testing.T) {
	// status == Reserved exactly when the queue is non-empty and the
	// book is not borrowed.
	b := newFictionBook(t)
	check := func(stage string) {
		t.Helper()
		wantReserved := b.HasReservations() && b.Status() != Borrowed
		if (b.Status() == Reserved) != wantReserved {
			t.Errorf("%s: status %v with queue %v breaks invariant", stage, b.Status(), b.ReservedBy())
		}
	}

	check("fresh")
	b.Reserve("alice")
	check("after reserve")
	b.CancelReservation("alice")
	check("after cancel")
	b.RecordBorrow()
	b.Reserve("bob")
	check("reserved while borrowed")
}

func TestReadingTimeByKind(t *testing.T) {
	tests := []struct {
		name  string
		attrs Attrs
		want  int
	}{
		{"fiction", FictionAttrs{Pages: 100}, 200},
		{"non-fiction", NonFictionAttrs{Pages: 100}, 200},
		{"ebook", EBookAttrs{WordCount: 60000}, 301},
		{"printed", PrintedAttrs{Pages: 250}, 500},
		{"fantasy", FantasyAttrs{FictionAttrs: FictionAttrs{Pages: 100}}, 300},
		{"textbook", TextbookAttrs{NonFictionAttrs: NonFictionAttrs{Pages: 100}}, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBook("T", "A", "9780261103573", tt.attrs)
			if err != nil {
				t.Fatalf("new book: %v", err)
			}
			if got := b.ReadingTime(); got != tt.want {
				t.Errorf("reading time = %d, want %d", got, tt.want)
			}
		})
	}
}
