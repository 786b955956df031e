package diag

import (
	"sort"
)

// File holds line offsets of a module's source text.
type File struct {
	Name  string
	text  string
	lines []int
}

func NewFile(name, text string) *File {
	lines := []int{0}
	for offset := range len(text) {
		if text[offset] == '\n' && offset+1 < len(text) {
			lines = append(lines, offset+1)
		}
	}
	return &File{
		Name:  name,
		text:  text,
		lines: lines,
	}
}

func (f *File) HasText() bool {
	return f != nil && f.text != ""
}

func (f *File) Position(pos int) Position {
	if pos < 0 || pos > len(f.text) {
		return Position{-1, -1, -1}
	}
	i := searchLine(f.lines, pos)
	return Position{
		Offset: pos,
		Line:   i + 1,
		Column: pos - f.lines[i] + 1,
	}
}

func (f *File) LineOfPos(pos int) string {
	i := searchLine(f.lines, pos)
	start := f.lines[i]
	end := len(f.text)
	if i+1 < len(f.lines) {
		end = f.lines[i+1]
	}
	b := f.text[start:end]
	if len(b) > 0 && b[len(b)-1] == '\n' {
		b = b[:len(b)-1]
	}
	return b
}

func searchLine(lines []int, offset int) int {
	return sort.Search(len(lines), func(i int) bool { return lines[i] > offset }) - 1
}

type Position struct {
	Offset int `json:"offset"` // Offset relative to the module source text.
	Line   int `json:"line"`   // 1-based line number.
	Column int `json:"column"` // 1-based column number.
}

func (p Position) IsValid() bool { return p.Offset >= 0 }
