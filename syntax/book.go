package syntax

import (
	"sort"

	"github.com/ezachrisen/kindcore/span"
)

// Book is a complete resolved program. It is built once by name resolution
// and is read-only afterwards.
type Book struct {
	// Entries by qualified name.
	Entries map[string]*Entry

	// Constructor groupings of sum types, by type name.
	Families map[string]*Family

	// Number of holes allocated while elaborating the book. The checker
	// program sizes its fresh-hole table from it.
	Holes uint64
}

// NewBook returns an empty book.
func NewBook() *Book {
	return &Book{
		Entries:  map[string]*Entry{},
		Families: map[string]*Family{},
	}
}

// Add inserts or replaces the entry under its qualified name.
func (b *Book) Add(e *Entry) {
	if b.Entries == nil {
		b.Entries = map[string]*Entry{}
	}
	b.Entries[e.Name.Name] = e
}

// AddFamily inserts or replaces the family under its type name.
func (b *Book) AddFamily(f *Family) {
	if b.Families == nil {
		b.Families = map[string]*Family{}
	}
	b.Families[f.Name.Name] = f
}

// Entry returns the entry with the qualified name.
func (b *Book) Entry(name string) (*Entry, bool) {
	e, ok := b.Entries[name]
	return e, ok
}

// Names returns the entry names in lexical order.
func (b *Book) Names() []string {
	return sortedKeys(b.Entries)
}

// FamilyNames returns the family names in lexical order.
func (b *Book) FamilyNames() []string {
	return sortedKeys(b.Families)
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Argument is one binder of an entry's telescope.
type Argument struct {
	Name   Ident
	Type   Expr
	Erased bool
	Range  span.Range
}

// Attributes that change how an entry is checked.
type Attributes struct {
	// Partial entries are not required to cover every case.
	Partial bool

	// Axiom entries are postulated and carry no coverage obligation.
	Axiom bool
}

// Entry is a function or axiom definition.
type Entry struct {
	Name Ident

	// Telescope; names are unique.
	Args []Argument

	// Result type, with Args in scope.
	Type Expr

	Rules []*Rule
	Attrs Attributes
	Range span.Range
}

// Arity is the telescope length.
func (e *Entry) Arity() int {
	return len(e.Args)
}

// Rule is one pattern-matching equation of an entry.
type Rule struct {
	// Name of the owning entry.
	Name Ident

	// One pattern per telescope argument.
	Pats []Expr

	Body  Expr
	Range span.Range
}

// Family groups the constructors of a sum type.
type Family struct {
	Name Ident

	// Leading telescope arguments shared by the type and all constructors.
	Parameters []Argument

	Constructors []Ident
}
