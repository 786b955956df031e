package diag

import (
	"strings"
)

// List collects the diagnostics of one module in the order they were
// reported.  A List is not safe for concurrent use.
type List struct {
	file  *File
	diags []*Diagnostic
}

func NewList(path, text string) *List {
	return &List{file: NewFile(path, text)}
}

func (l *List) Path() string {
	return l.file.Name
}

// Add reports a diagnostic with the standard message for code.
func (l *List) Add(code Code, pos, end int, name string) *Diagnostic {
	return l.AddMsg(code, pos, end, name, code.message(name))
}

// AddMsg reports a diagnostic with a custom message.
func (l *List) AddMsg(code Code, pos, end int, name, msg string) *Diagnostic {
	d := &Diagnostic{
		Code: code,
		Msg:  msg,
		Name: name,
		Pos:  pos,
		End:  end,
		file: l.file,
	}
	l.diags = append(l.diags, d)
	return d
}

// Has returns true if a diagnostic with code was already reported at pos.
func (l *List) Has(code Code, pos int) bool {
	for _, d := range l.diags {
		if d.Code == code && d.Pos == pos {
			return true
		}
	}
	return false
}

// Append adds diagnostics reported elsewhere to l.
func (l *List) Append(diags ...*Diagnostic) {
	for _, d := range diags {
		c := *d
		c.file = l.file
		l.diags = append(l.diags, &c)
	}
}

func (l *List) Diagnostics() []*Diagnostic {
	return l.diags
}

func (l *List) Len() int {
	return len(l.diags)
}

// Codes returns the code of each diagnostic in order.
func (l *List) Codes() []Code {
	codes := make([]Code, 0, len(l.diags))
	for _, d := range l.diags {
		codes = append(codes, d.Code)
	}
	return codes
}

// Count returns the number of diagnostics with code.
func (l *List) Count(code Code) int {
	var n int
	for _, d := range l.diags {
		if d.Code == code {
			n++
		}
	}
	return n
}

func (l *List) Error() error {
	if len(l.diags) == 0 {
		return nil
	}
	return ErrorList(l.diags)
}

// ErrorList is a list of Diagnostics.
type ErrorList []*Diagnostic

// Error concatenates the diagnostics in e with a newline between each.
func (e ErrorList) Error() string {
	var b strings.Builder
	for i, err := range e {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(err.Error())
	}
	return b.String()
}
