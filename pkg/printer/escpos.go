package printer

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// ESC/POS command bytes
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// codePageCP866 is the ESC t table number most Epson-compatible printers use
// for PC866 Cyrillic.
const codePageCP866 = 17

// Document builds an ESC/POS job from already laid out text lines. Text is
// transcoded to CP866; characters outside it print as '?'.
type Document struct {
	buf bytes.Buffer
	enc *encoding.Encoder
}

// NewDocument initialises the printer and selects the Cyrillic code page.
func NewDocument() *Document {
	d := &Document{enc: encoding.ReplaceUnsupported(charmap.CodePage866.NewEncoder())}
	d.Init()
	return d
}

// Init sends ESC @ and ESC t.
func (d *Document) Init() *Document {
	d.buf.Write([]byte{ESC, '@'})
	d.buf.Write([]byte{ESC, 't', codePageCP866})
	return d
}

func (d *Document) Text(s string) *Document {
	encoded, err := d.enc.String(s)
	if err != nil {
		encoded = strings.Map(asciiOnly, s)
	}
	d.buf.WriteString(encoded)
	d.buf.WriteByte(LF)
	return d
}

// Lines writes each "\n" separated line of a rendered receipt.
func (d *Document) Lines(text string) *Document {
	for _, line := range strings.Split(text, "\n") {
		d.Text(line)
	}
	return d
}

func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

func asciiOnly(r rune) rune {
	if r < 0x80 {
		return r
	}
	return '?'
}
