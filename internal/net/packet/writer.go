package packet

import (
	"strconv"
	"strings"
)

// Writer builds one v1 frame. NewWriter emits the version marker and the
// message type, so every later field is appended with a leading comma.
type Writer struct {
	b strings.Builder
}

func NewWriter(t MessageType) *Writer {
	w := &Writer{}
	w.b.WriteByte('0' + protocolVersion)
	w.WriteNumber(uint64(t))
	return w
}

// WriteNumber writes one decimal field.
func (w *Writer) WriteNumber(v uint64) {
	w.b.WriteByte(',')
	w.b.WriteString(strconv.FormatUint(v, 10))
}

// WriteString writes a length-prefixed string field. The byte count lets
// the reader take the literal verbatim, commas included.
func (w *Writer) WriteString(s string) {
	w.WriteNumber(uint64(len(s)))
	w.b.WriteByte(',')
	w.b.WriteString(s)
}

func (w *Writer) String() string {
	return w.b.String()
}
