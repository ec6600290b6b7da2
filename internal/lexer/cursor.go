package lexer

import (
	"bytes"
	"fmt"

	"fortio.org/safecast"

	"strsym/internal/source"
)

// Cursor is a forward-only position inside a file's content.
type Cursor struct {
	File *source.File
	Off  uint32
	// Limit is the exclusive upper bound for Off.
	Limit uint32
}

// NewCursor creates a new cursor for the provided file.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{
		File:  f,
		Off:   0,
		Limit: limit,
	}
}

// EOF проверяет, достигнут ли конец файла
func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// Peek читает текущий байт, если есть, иначе возвращает 0
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Content[c.Off]
}

// Peek2 читает текущий и следующий байт, если есть, иначе возвращает 0, 0, false
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= c.Limit {
		return 0, 0, false
	}
	return c.File.Content[c.Off], c.File.Content[c.Off+1], true
}

// Rest returns the unread part of the content.
func (c *Cursor) Rest() []byte {
	if c.EOF() {
		return nil
	}
	return c.File.Content[c.Off:c.Limit]
}

// HasPrefix reports whether the unread content starts with p.
func (c *Cursor) HasPrefix(p string) bool {
	return bytes.HasPrefix(c.Rest(), []byte(p))
}

// Bump перемещает курсор на один байт вперед и возвращает прочитанный байт
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.File.Content[c.Off]
	c.Off++
	return b
}

// Advance moves the cursor n bytes forward, stopping at Limit.
func (c *Cursor) Advance(n int) {
	un, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("advance overflow: %w", err))
	}
	c.Off = min(c.Off+un, c.Limit)
}

// AtEOL reports whether the cursor sits on a line terminator (\n or \r\n).
// End of input is not reported here; callers check EOF separately.
func (c *Cursor) AtEOL() bool {
	switch c.Peek() {
	case '\n':
		return true
	case '\r':
		_, b1, ok := c.Peek2()
		return ok && b1 == '\n'
	}
	return false
}

// EOLWidth returns the length of the terminator at the cursor (1 or 2), or 0.
func (c *Cursor) EOLWidth() int {
	switch c.Peek() {
	case '\n':
		return 1
	case '\r':
		if _, b1, ok := c.Peek2(); ok && b1 == '\n' {
			return 2
		}
	}
	return 0
}

// Mark это метка, что бы быстро получать Span читаемого фрагмента
type Mark uint32

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom получает Span для фрагмента, начиная с метки
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{
		File:  c.File.ID,
		Start: uint32(m),
		End:   c.Off,
	}
}

// Reset возвращает курсор назад к метке
func (c *Cursor) Reset(m Mark) {
	c.Off = uint32(m)
}

// Eat consumes the next byte if it matches the provided byte.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.File.Content[c.Off] == b {
		c.Off++
		return true
	}
	return false
}
