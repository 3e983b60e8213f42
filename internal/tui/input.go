package tui

import "unicode"

// charClass partitions runes into the three classes the vi-style word
// motions stop on: whitespace, punctuation, alphanumeric.
type charClass int

const (
	classWhitespace charClass = iota
	classPunctuation
	classAlnum
)

func classOf(r rune) charClass {
	switch {
	case unicode.IsSpace(r):
		return classWhitespace
	case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
		return classAlnum
	default:
		return classPunctuation
	}
}

// input is a focusable text buffer with a bounded cursor and a horizontal
// scroll window, used for both the title and date fields of the Create
// sub-state. Hand-rolled rather than bubbles/textinput: the Normal-mode
// vi motions (h/l, ^/$, e/b) need direct cursor control that widget does
// not expose.
type input struct {
	buf         []rune
	cursor      int // bounded [0, len(buf)]
	offset      int // first visible rune index
	width       int
	placeholder string
}

func newInput(width int, placeholder string) *input {
	return &input{width: width, placeholder: placeholder}
}

func (in *input) Value() string { return string(in.buf) }

func (in *input) SetValue(s string) {
	in.buf = []rune(s)
	in.cursor = len(in.buf)
	in.offset = 0
	in.scrollIntoView()
}

func (in *input) Clear() {
	in.buf = in.buf[:0]
	in.cursor = 0
	in.offset = 0
}

func (in *input) clampCursor() {
	if in.cursor < 0 {
		in.cursor = 0
	}
	if in.cursor > len(in.buf) {
		in.cursor = len(in.buf)
	}
}

func (in *input) scrollIntoView() {
	if in.width <= 0 {
		return
	}
	if in.cursor < in.offset {
		in.offset = in.cursor
	}
	if in.cursor > in.offset+in.width-1 {
		in.offset = in.cursor - in.width + 1
	}
	if in.offset < 0 {
		in.offset = 0
	}
}

// --- Editing-mode operations: insert/delete at cursor, arrow navigation. ---

func (in *input) InsertRune(r rune) {
	in.buf = append(in.buf[:in.cursor], append([]rune{r}, in.buf[in.cursor:]...)...)
	in.cursor++
	in.scrollIntoView()
}

func (in *input) Backspace() {
	if in.cursor == 0 {
		return
	}
	in.buf = append(in.buf[:in.cursor-1], in.buf[in.cursor:]...)
	in.cursor--
	in.scrollIntoView()
}

func (in *input) ArrowLeft() {
	in.cursor--
	in.clampCursor()
	in.scrollIntoView()
}

func (in *input) ArrowRight() {
	in.cursor++
	in.clampCursor()
	in.scrollIntoView()
}

// --- Normal-mode vi motions. ---

func (in *input) MoveCharLeft()  { in.ArrowLeft() }
func (in *input) MoveCharRight() { in.ArrowRight() }

func (in *input) JumpStart() {
	in.cursor = 0
	in.scrollIntoView()
}

func (in *input) JumpEnd() {
	in.cursor = len(in.buf)
	in.scrollIntoView()
}

// WordEnd moves to the last rune of the next word, vi's "e".
func (in *input) WordEnd() {
	n := len(in.buf)
	if n == 0 {
		return
	}
	pos := in.cursor + 1
	for pos < n && classOf(in.buf[pos]) == classWhitespace {
		pos++
	}
	if pos >= n {
		in.cursor = n - 1
	} else {
		c := classOf(in.buf[pos])
		for pos+1 < n && classOf(in.buf[pos+1]) == c {
			pos++
		}
		in.cursor = pos
	}
	in.clampCursor()
	in.scrollIntoView()
}

// WordBegin moves to the first rune of the previous word, vi's "b".
func (in *input) WordBegin() {
	if in.cursor <= 0 {
		return
	}
	pos := in.cursor - 1
	for pos > 0 && classOf(in.buf[pos]) == classWhitespace {
		pos--
	}
	if pos > 0 {
		c := classOf(in.buf[pos])
		for pos > 0 && classOf(in.buf[pos-1]) == c {
			pos--
		}
	}
	in.cursor = pos
	in.scrollIntoView()
}

// View renders the visible window with the cursor highlighted. editing
// selects the insertion-point glyph over the block-cursor glyph.
func (in *input) View(editing bool, focused bool) string {
	width := in.width
	if width <= 0 {
		width = 20
	}

	if len(in.buf) == 0 {
		text := MutedStyle.Render(in.placeholder)
		if focused {
			return text + EmphStyle.Render("_")
		}
		return text
	}

	end := in.offset + width
	if end > len(in.buf) {
		end = len(in.buf)
	}
	visible := in.buf[in.offset:end]

	if !focused {
		return string(visible)
	}

	rel := in.cursor - in.offset
	out := make([]rune, 0, len(visible)+1)
	for i, r := range visible {
		if i == rel {
			out = append(out, []rune(cursorGlyph(r, editing))...)
			continue
		}
		out = append(out, r)
	}
	if rel == len(visible) {
		out = append(out, []rune(cursorGlyph(' ', editing))...)
	}
	return string(out)
}

func cursorGlyph(r rune, editing bool) string {
	if editing {
		return ListSelectedStyle.Render(string(r))
	}
	return EmphStyle.Render(string(r))
}
