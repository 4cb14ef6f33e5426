// Package source holds the position bookkeeping the core carries but never
// produces. Lexing and parsing live outside this module (see spec §1); every
// AST node still needs a SourceRange so that diagnostics can be localized
// without the core depending on source text.
package source

import "fmt"

// Position is a single point in a source file.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before reports whether p occurs strictly earlier in the source than other.
func (p Position) Before(other Position) bool {
	return p.Offset < other.Offset
}

// Range is a half-open span [Begin, End) within a single file.
type Range struct {
	File  string
	Begin Position
	End   Position
}

func (r Range) String() string {
	if r.File == "" {
		return fmt.Sprintf("%s-%s", r.Begin, r.End)
	}
	return fmt.Sprintf("%s:%s-%s", r.File, r.Begin, r.End)
}

// Join returns the smallest range covering both r and other. Both must
// belong to the same file; Join panics otherwise since merging ranges across
// files is always a caller bug.
func Join(r, other Range) Range {
	if r.File != other.File {
		panic("source: Join across different files: " + r.File + " vs " + other.File)
	}
	result := r
	if other.Begin.Offset < result.Begin.Offset {
		result.Begin = other.Begin
	}
	if other.End.Offset > result.End.Offset {
		result.End = other.End
	}
	return result
}
