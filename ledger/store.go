// Package ledger is the append-only lending transaction log, backed
// by SQLite. Borrow rows stay open until the matching return marks
// them in place; reserve, cancel and renew events are recorded as
// marker rows.
package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Type is the kind of ledger entry.
type Type string

const (
	TypeBorrow  Type = "borrow"
	TypeReserve Type = "reserve"
	TypeCancel  Type = "cancel"
	TypeRenew   Type = "renew"
)

const (
	dateFormat = "2006-01-02"
	timeFormat = time.RFC3339
)

// Errors returned by the Store.
var (
	// ErrNoOpenBorrow is returned when no unreturned borrow exists for
	// the (member, book) pair.
	ErrNoOpenBorrow = errors.New("no open borrow transaction")

	// ErrDuplicateOpenBorrow is returned when a second open borrow
	// would be created for the same (member, book) pair.
	ErrDuplicateOpenBorrow = errors.New("open borrow already exists for this member and book")
)

// Transaction is a single ledger entry.
type Transaction struct {
	ID       int64
	Type     Type
	Username string
	BookID   int64
	At       time.Time

	// Borrow entries only.
	DueDate    time.Time
	Returned   bool
	ReturnDate time.Time
	LateFee    float64
}

// Store provides high-level helpers around the SQLite ledger.
type Store struct {
	db *sql.DB

	appendStmt *sql.Stmt
}

// Open opens (or creates) the ledger database at path and applies
// schema migrations. The path ":memory:" keeps the ledger for the
// lifetime of the process only.
func Open(path string) (*Store, error) {
	var dsn string
	if path == ":memory:" {
		dsn = ":memory:"
	} else {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create ledger dir: %w", err)
			}
		}
		dsn = fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", path)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// An in-memory database exists per connection; a single connection
	// keeps every statement on the same database.
	db.SetMaxOpenConns(1)

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if s.appendStmt, err = db.Prepare(
		`INSERT INTO transactions(type,username,book_id,txn_time,due_date) VALUES(?,?,?,?,?)`,
	); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases prepared statements and closes the database.
func (s *Store) Close() error {
	if s.appendStmt != nil {
		s.appendStmt.Close()
	}
	return s.db.Close()
}

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS transactions (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            type TEXT NOT NULL,
            username TEXT NOT NULL,
            book_id INTEGER NOT NULL,
            txn_time TEXT NOT NULL,
            due_date TEXT,
            return_date TEXT,
            late_fee REAL NOT NULL DEFAULT 0
        );`,
		// One open borrow per (member, book).
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_open_borrow
            ON transactions(username, book_id)
            WHERE type='borrow' AND return_date IS NULL;`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}

	if _, err := tx.Exec(
		`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	return tx.Commit()
}

// RecordBorrow appends an open borrow entry with the given due date.
func (s *Store) RecordBorrow(username string, bookID int64, at, due time.Time) (int64, error) {
	res, err := s.appendStmt.Exec(TypeBorrow, username, bookID, at.Format(timeFormat), due.Format(dateFormat))
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateOpenBorrow
		}
		return 0, err
	}
	return res.LastInsertId()
}

// RecordReserve appends a reserve marker entry.
func (s *Store) RecordReserve(username string, bookID int64, at time.Time) (int64, error) {
	return s.appendMarker(TypeReserve, username, bookID, at)
}

// RecordCancel appends a cancel marker entry.
func (s *Store) RecordCancel(username string, bookID int64, at time.Time) (int64, error) {
	return s.appendMarker(TypeCancel, username, bookID, at)
}

func (s *Store) appendMarker(t Type, username string, bookID int64, at time.Time) (int64, error) {
	res, err := s.appendStmt.Exec(t, username, bookID, at.Format(timeFormat), nil)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// OpenBorrow returns the unreturned borrow entry for the pair.
func (s *Store) OpenBorrow(username string, bookID int64) (*Transaction, error) {
	row := s.db.QueryRow(
		`SELECT id,type,username,book_id,txn_time,due_date,return_date,late_fee
         FROM transactions
         WHERE type='borrow' AND username=? AND book_id=? AND return_date IS NULL`,
		username, bookID)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoOpenBorrow
	}
	return t, err
}

// MarkReturned closes the borrow entry in place, recording the return
// date and the late fee charged.
func (s *Store) MarkReturned(id int64, returnedAt time.Time, lateFee float64) error {
	res, err := s.db.Exec(
		`UPDATE transactions SET return_date=?, late_fee=? WHERE id=? AND type='borrow' AND return_date IS NULL`,
		returnedAt.Format(dateFormat), lateFee, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoOpenBorrow
	}
	return nil
}

// Renew moves the open borrow's due date and appends a renew marker,
// atomically.
func (s *Store) Renew(id int64, newDue, at time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var username string
	var bookID int64
	err = tx.QueryRow(
		`SELECT username, book_id FROM transactions WHERE id=? AND type='borrow' AND return_date IS NULL`,
		id).Scan(&username, &bookID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoOpenBorrow
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`UPDATE transactions SET due_date=? WHERE id=?`, newDue.Format(dateFormat), id); err != nil {
		return err
	}
	if _, err := tx.Exec(
		`INSERT INTO transactions(type,username,book_id,txn_time) VALUES(?,?,?,?)`,
		TypeRenew, username, bookID, at.Format(timeFormat)); err != nil {
		return err
	}
	return tx.Commit()
}

// OpenBorrows returns every unreturned borrow entry, oldest first.
func (s *Store) OpenBorrows() ([]Transaction, error) {
	return s.query(
		`SELECT id,type,username,book_id,txn_time,due_date,return_date,late_fee
         FROM transactions
         WHERE type='borrow' AND return_date IS NULL ORDER BY id`)
}

// MemberHistory returns every entry for the member, oldest first.
func (s *Store) MemberHistory(username string) ([]Transaction, error) {
	return s.query(
		`SELECT id,type,username,book_id,txn_time,due_date,return_date,late_fee
         FROM transactions WHERE username=? ORDER BY id`, username)
}

// BookHistory returns every entry for the book, oldest first.
func (s *Store) BookHistory(bookID int64) ([]Transaction, error) {
	return s.query(
		`SELECT id,type,username,book_id,txn_time,due_date,return_date,late_fee
         FROM transactions WHERE book_id=? ORDER BY id`, bookID)
}

func (s *Store) query(q string, args ...any) ([]Transaction, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (*Transaction, error) {
	var t Transaction
	var txnTime string
	var due, ret sql.NullString
	if err := row.Scan(&t.ID, &t.Type, &t.Username, &t.BookID, &txnTime, &due, &ret, &t.LateFee); err != nil {
		return nil, err
	}

	at, err := time.Parse(timeFormat, txnTime)
	if err != nil {
		return nil, fmt.Errorf("parse txn_time: %w", err)
	}
	t.At = at

	if due.Valid {
		d, err := time.Parse(dateFormat, due.String)
		if err != nil {
			return nil, fmt.Errorf("parse due_date: %w", err)
		}
		t.DueDate = d
	}
	if ret.Valid {
		r, err := time.Parse(dateFormat, ret.String)
		if err != nil {
			return nil, fmt.Errorf("parse return_date: %w", err)
		}
		t.ReturnDate = r
		t.Returned = true
	}
	return &t, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
