package search

// Mode selects how catalog clients build their upstream query.
type Mode int

const (
	// ModeGeneral sends the text as-is, with each client applying its own
	// ISBN rewriting.
	ModeGeneral Mode = iota
	// ModeByAuthor biases the query toward author fields, using each
	// catalog's author-search syntax where one exists.
	ModeByAuthor
)

// Query is the transient value handed to every catalog client. Text is the
// caller's input before any provider-specific rewriting; clients score
// results against it.
type Query struct {
	Text string
	Mode Mode
}
