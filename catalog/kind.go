package catalog

// Kind tags the variant of a catalog entry. Kind-specific data lives
// in the matching Attrs bundle on the Book.
type Kind int

const (
	Fiction Kind = iota
	NonFiction
	EBook
	Printed
	Fantasy
	Textbook
)

// Attrs is the kind-specific attribute bundle carried by a Book.
// Exactly one concrete bundle is attached, matching the Book's Kind.
type Attrs interface {
	kind() Kind
}

// FictionAttrs describes fiction titles.
type FictionAttrs struct {
	Subgenre     string
	Pages        int
	SeriesName   string
	SeriesNumber int
}

// NonFictionAttrs describes non-fiction titles.
type NonFictionAttrs struct {
	Subject        string
	Classification string
	Pages          int
}

// EBookFormat is the digital container format.
type EBookFormat string

const (
	FormatPDF  EBookFormat = "PDF"
	FormatEPUB EBookFormat = "EPUB"
	FormatMOBI EBookFormat = "MOBI"
)

// EBookAttrs describes digital titles.
type EBookAttrs struct {
	Format       EBookFormat
	FileSizeMB   float64
	WordCount    int
	DRMProtected bool
}

// PrintedAttrs describes physical titles.
type PrintedAttrs struct {
	Pages     int
	Binding   string
	Hardcover bool
	Condition string
}

// FantasyAttrs describes fantasy novels.
type FantasyAttrs struct {
	FictionAttrs
	WorldName      string
	HasMagicSystem bool
}

// TextbookAttrs describes academic textbooks.
type TextbookAttrs struct {
	NonFictionAttrs
	Field      string
	CourseCode string
}

func (FictionAttrs) kind() Kind    { return Fiction }
func (NonFictionAttrs) kind() Kind { return NonFiction }
func (EBookAttrs) kind() Kind      { return EBook }
func (PrintedAttrs) kind() Kind    { return Printed }
func (FantasyAttrs) kind() Kind    { return Fantasy }
func (TextbookAttrs) kind() Kind   { return Textbook }

// behavior is the per-kind behavior table keyed by Kind.
type behavior struct {
	label       string
	readingTime func(a Attrs) int // minutes
}

var kindBehavior = map[Kind]behavior{
	Fiction: {
		label: "Fiction",
		readingTime: func(a Attrs) int {
			return a.(FictionAttrs).Pages * 2
		},
	},
	NonFiction: {
		label: "Non-Fiction",
		readingTime: func(a Attrs) int {
			return a.(NonFictionAttrs).Pages * 2
		},
	},
	EBook: {
		label: "E-Book",
		readingTime: func(a Attrs) int {
			// Average reading speed: 200 words per minute.
			return a.(EBookAttrs).WordCount/200 + 1
		},
	},
	Printed: {
		label: "Printed Book",
		readingTime: func(a Attrs) int {
			return a.(PrintedAttrs).Pages * 2
		},
	},
	Fantasy: {
		label: "Fantasy Novel",
		readingTime: func(a Attrs) int {
			return a.(FantasyAttrs).Pages * 3
		},
	},
	Textbook: {
		label: "Textbook",
		readingTime: func(a Attrs) int {
			return a.(TextbookAttrs).Pages * 5
		},
	},
}

// Label returns the display label for the kind.
func (k Kind) Label() string {
	if b, ok := kindBehavior[k]; ok {
		return b.label
	}
	return "Book"
}
