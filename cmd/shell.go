package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"librarian/catalog"
	"librarian/member"
)

// session is the interactive shell state: one logged-in member at a
// time; admin commands act as the operator at the prompt.
type session struct {
	sc      *bufio.Scanner
	current *member.Member
}

func runShell(cmd *cobra.Command, args []string) error {
	defer store.Close()

	s := &session{sc: bufio.NewScanner(os.Stdin)}

	fmt.Printf("Welcome to %s!\n", cfg.Library.Name)
	fmt.Println("Available commands:")
	fmt.Println("  Catalog: add book, remove book, set status, list books, book info")
	fmt.Println("  Members: register, login, logout, reactivate, set tier, profile")
	fmt.Println("  Lending: borrow, return, reserve, cancel, renew, my books, my reservations")
	fmt.Println("  Notices: notifications, sweep, announce")
	fmt.Println("  Reports: overdue, stats, history")
	fmt.Println("  System: exit")

	for {
		fmt.Print("\n> ")
		if !s.sc.Scan() {
			break
		}

		switch strings.TrimSpace(s.sc.Text()) {
		case "add book":
			s.handleAddBook()
		case "remove book":
			s.handleRemoveBook()
		case "set status":
			s.handleSetStatus()
		case "list books":
			s.handleListBooks()
		case "book info":
			s.handleBookInfo()
		case "register":
			s.handleRegister()
		case "login":
			s.handleLogin()
		case "logout":
			s.current = nil
			fmt.Println("Logged out.")
		case "reactivate":
			s.handleReactivate()
		case "set tier":
			s.handleSetTier()
		case "profile":
			s.handleProfile()
		case "borrow":
			s.handleBorrow()
		case "return":
			s.handleReturn()
		case "reserve":
			s.handleReserve()
		case "cancel":
			s.handleCancelReservation()
		case "renew":
			s.handleRenew()
		case "my books":
			s.handleMyBooks()
		case "my reservations":
			s.handleMyReservations()
		case "notifications":
			s.handleNotifications()
		case "sweep":
			s.handleSweep()
		case "announce":
			s.handleAnnounce()
		case "overdue":
			s.handleOverdue()
		case "stats":
			s.handleStats()
		case "history":
			s.handleHistory()
		case "exit":
			fmt.Println("Goodbye!")
			return nil
		default:
			fmt.Println("Unknown command. Type one of the available commands listed above.")
		}
	}
	return nil
}

// ------------------ prompt helpers ------------------

func (s *session) readLine(prompt string) (string, bool) {
	fmt.Print(prompt)
	if !s.sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.sc.Text()), true
}

func (s *session) readID(prompt string) (int64, bool) {
	text, ok := s.readLine(prompt)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		fmt.Println("Invalid id.")
		return 0, false
	}
	return id, true
}

// readPassword securely reads a password with masking.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(bytePassword)), nil
}

func (s *session) requireLogin() bool {
	if s.current == nil {
		fmt.Println("Please login first.")
		return false
	}
	return true
}

// ------------------ catalog ------------------

func (s *session) handleAddBook() {
	kind, ok := s.readLine("Kind (fiction/nonfiction/ebook/printed/fantasy/textbook): ")
	if !ok {
		return
	}
	title, ok := s.readLine("Title: ")
	if !ok {
		return
	}
	author, ok := s.readLine("Author: ")
	if !ok {
		return
	}
	isbn, ok := s.readLine("ISBN (10 or 13 digits): ")
	if !ok {
		return
	}
	sizeText, ok := s.readLine("Pages (word count for ebooks): ")
	if !ok {
		return
	}
	size, err := strconv.Atoi(sizeText)
	if err != nil {
		fmt.Println("Invalid number.")
		return
	}

	attrs, err := seedAttrs(kind, size)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	book, err := catalog.NewBook(title, author, isbn, attrs)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	id, err := coord.AddBook(book)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Book added with ID: %d\n", id)
}

func (s *session) handleRemoveBook() {
	id, ok := s.readID("Book ID: ")
	if !ok {
		return
	}
	if err := coord.RemoveBook(id); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println("Book removed.")
}

func (s *session) handleSetStatus() {
	id, ok := s.readID("Book ID: ")
	if !ok {
		return
	}
	text, ok := s.readLine("Status (available/lost/damaged/maintenance): ")
	if !ok {
		return
	}

	var status catalog.Status
	switch text {
	case "available":
		status = catalog.Available
	case "lost":
		status = catalog.Lost
	case "damaged":
		status = catalog.Damaged
	case "maintenance":
		status = catalog.UnderMaintenance
	default:
		fmt.Println("Unknown status.")
		return
	}

	if err := coord.SetBookStatus(id, status); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println("Status updated.")
}

func (s *session) handleListBooks() {
	books := coord.Books()
	if len(books) == 0 {
		fmt.Println("No books in the library.")
		return
	}
	fmt.Printf("%-5s %-35s %-25s %-12s %s\n", "ID", "Title", "Author", "Kind", "Status")
	fmt.Println(strings.Repeat("-", 90))
	for _, b := range books {
		fmt.Println(b.Display())
	}
}

func (s *session) handleBookInfo() {
	id, ok := s.readID("Book ID: ")
	if !ok {
		return
	}
	b, err := coord.Book(id)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("%s by %s\n", b.Title(), b.Author())
	fmt.Printf("  ID: %d | ISBN: %s | Kind: %s\n", b.ID(), b.ISBN(), b.Kind().Label())
	fmt.Printf("  Status: %s | Times borrowed: %d\n", b.Status(), b.BorrowCount())
	fmt.Printf("  Estimated reading time: %d minutes\n", b.ReadingTime())
	if queue := b.ReservedBy(); len(queue) > 0 {
		fmt.Printf("  Reserved by (%d): %s\n", len(queue), strings.Join(queue, ", "))
	}
}

// ------------------ members ------------------

func (s *session) handleRegister() {
	username, ok := s.readLine("Username: ")
	if !ok {
		return
	}
	password, err := readPassword("Password: ")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fullName, ok := s.readLine("Full name: ")
	if !ok {
		return
	}
	email, ok := s.readLine("Email: ")
	if !ok {
		return
	}
	tier, ok := s.readLine("Tier (standard/premium/student/faculty/staff/guest): ")
	if !ok {
		return
	}

	if _, err := coord.RegisterMember(username, password, fullName, email, member.Tier(tier)); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println("Member registered successfully.")
}

func (s *session) handleLogin() {
	username, ok := s.readLine("Username: ")
	if !ok {
		return
	}
	password, err := readPassword("Password: ")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	m, err := coord.Authenticate(username, password)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	s.current = m
	fmt.Printf("Welcome back, %s!\n", m.FullName())

	if unread := inbox.Unread(username); len(unread) > 0 {
		fmt.Printf("You have %d unread notifications.\n", len(unread))
	}
}

func (s *session) handleReactivate() {
	username, ok := s.readLine("Username: ")
	if !ok {
		return
	}
	if err := coord.ReactivateMember(username); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println("Account reactivated.")
}

func (s *session) handleSetTier() {
	username, ok := s.readLine("Username: ")
	if !ok {
		return
	}
	tier, ok := s.readLine("Tier (standard/premium/student/faculty/staff/guest): ")
	if !ok {
		return
	}
	if err := coord.SetMemberTier(username, member.Tier(tier)); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println("Tier updated.")
}

func (s *session) handleProfile() {
	if !s.requireLogin() {
		return
	}
	m := s.current
	fmt.Printf("Profile for %s:\n", m.Username())
	fmt.Printf("  Name: %s | Email: %s | Tier: %s\n", m.FullName(), m.Email(), m.Tier())
	fmt.Printf("  Active: %t | Balance due: $%.2f\n", m.Active(), m.Balance())
	fmt.Printf("  Currently borrowed: %d | Lifetime borrows: %d\n", m.LoanCount(), m.TotalBorrowed())
}

// ------------------ lending ------------------

func (s *session) handleBorrow() {
	if !s.requireLogin() {
		return
	}
	id, ok := s.readID("Book ID: ")
	if !ok {
		return
	}
	due, err := coord.Borrow(s.current.Username(), id)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Book borrowed. Due date: %s\n", due.Format("2006-01-02"))
}

func (s *session) handleReturn() {
	if !s.requireLogin() {
		return
	}
	id, ok := s.readID("Book ID: ")
	if !ok {
		return
	}
	fee, err := coord.Return(s.current.Username(), id)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if fee > 0 {
		fmt.Printf("Book returned. Late fee charged: $%.2f\n", fee)
	} else {
		fmt.Println("Book returned.")
	}
}

func (s *session) handleReserve() {
	if !s.requireLogin() {
		return
	}
	id, ok := s.readID("Book ID: ")
	if !ok {
		return
	}
	if err := coord.Reserve(s.current.Username(), id); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println("Book reserved.")
}

func (s *session) handleCancelReservation() {
	if !s.requireLogin() {
		return
	}
	id, ok := s.readID("Book ID: ")
	if !ok {
		return
	}
	if err := coord.CancelReservation(s.current.Username(), id); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println("Reservation cancelled.")
}

func (s *session) handleRenew() {
	if !s.requireLogin() {
		return
	}
	id, ok := s.readID("Book ID: ")
	if !ok {
		return
	}
	due, err := coord.Renew(s.current.Username(), id)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Loan renewed. New due date: %s\n", due.Format("2006-01-02"))
}

func (s *session) handleMyBooks() {
	if !s.requireLogin() {
		return
	}
	loans := s.current.Loans()
	if len(loans) == 0 {
		fmt.Println("No books currently borrowed.")
		return
	}
	for _, l := range loans {
		fmt.Printf("- Book ID %d (borrowed %s, due %s)\n",
			l.BookID, l.BorrowedAt.Format("2006-01-02"), l.DueDate.Format("2006-01-02"))
	}
}

func (s *session) handleMyReservations() {
	if !s.requireLogin() {
		return
	}
	reserved := s.current.Reserved()
	if len(reserved) == 0 {
		fmt.Println("No books currently reserved.")
		return
	}
	for _, id := range reserved {
		fmt.Printf("- Book ID %d\n", id)
	}
}

// ------------------ notices and reports ------------------

func (s *session) handleNotifications() {
	if !s.requireLogin() {
		return
	}
	notes := inbox.All(s.current.Username())
	if len(notes) == 0 {
		fmt.Println("No notifications found.")
		return
	}
	for _, n := range notes {
		state := "new"
		if n.Read {
			state = "read"
		}
		fmt.Printf("[%s] %s: %s (%s)\n", n.SentAt.Format("2006-01-02 15:04"), n.Kind, n.Message, state)
		inbox.MarkRead(n.ID)
	}
}

func (s *session) handleSweep() {
	sent, err := coord.SweepDueDates()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Due-date sweep complete: %d notices sent.\n", sent)
}

func (s *session) handleAnnounce() {
	username, ok := s.readLine("Recipient username: ")
	if !ok {
		return
	}
	message, ok := s.readLine("Message: ")
	if !ok {
		return
	}
	if err := coord.Announce(username, message); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println("Notification sent.")
}

func (s *session) handleOverdue() {
	overdue, err := coord.Overdue()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(overdue) == 0 {
		fmt.Println("No overdue books currently.")
		return
	}
	for _, o := range overdue {
		fmt.Printf("- %s has book %d, due %s (%d days overdue, $%.2f accrued)\n",
			o.Username, o.BookID, o.DueDate.Format("2006-01-02"), o.DaysOverdue, o.AccruedFee)
	}
}

func (s *session) handleStats() {
	stats := coord.Stats()
	fmt.Printf("Books: %d | Members: %d (%d active) | Total borrows: %d\n",
		stats.Books, stats.Members, stats.ActiveMembers, stats.TotalBorrows)
	for status, n := range stats.ByStatus {
		fmt.Printf("  %s: %d\n", status, n)
	}
	if top := coord.MostBorrowed(5); len(top) > 0 {
		fmt.Println("Most borrowed:")
		for i, b := range top {
			fmt.Printf("  %d. %s by %s (%d times)\n", i+1, b.Title(), b.Author(), b.BorrowCount())
		}
	}
}

func (s *session) handleHistory() {
	if !s.requireLogin() {
		return
	}
	history, err := coord.MemberHistory(s.current.Username())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(history) == 0 {
		fmt.Println("No transactions yet.")
		return
	}
	for _, tx := range history {
		line := fmt.Sprintf("#%d %s book %d on %s", tx.ID, tx.Type, tx.BookID, tx.At.Format("2006-01-02"))
		if !tx.DueDate.IsZero() {
			line += fmt.Sprintf(", due %s", tx.DueDate.Format("2006-01-02"))
		}
		if tx.Returned {
			line += fmt.Sprintf(", returned %s", tx.ReturnDate.Format("2006-01-02"))
			if tx.LateFee > 0 {
				line += fmt.Sprintf(" (late fee $%.2f)", tx.LateFee)
			}
		}
		fmt.Println(line)
	}
}
