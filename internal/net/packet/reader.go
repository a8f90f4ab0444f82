package packet

// Reader walks the comma-delimited fields of one v1 frame.
type Reader struct {
	data  string
	off   int
	short bool
}

func NewReader(data string) *Reader {
	return &Reader{data: data}
}

// ReadNumber reads one decimal field. The reader is lenient: non-digit
// bytes before the first digit are skipped, and the byte that terminates
// the digit run is consumed along with it.
func (r *Reader) ReadNumber() uint64 {
	for r.off < len(r.data) && !isDigit(r.data[r.off]) {
		r.off++
	}
	var n uint64
	for r.off < len(r.data) && isDigit(r.data[r.off]) {
		n = n*10 + uint64(r.data[r.off]-'0')
		r.off++
	}
	if r.off < len(r.data) {
		r.off++ // delimiter after the digit run
	}
	return n
}

// ReadString reads a length-prefixed string field. The literal is taken
// verbatim, byte for byte, so embedded commas are permitted.
func (r *Reader) ReadString() string {
	n := int(r.ReadNumber())
	if n < 0 || r.off+n > len(r.data) {
		r.short = true
		s := r.data[r.off:]
		r.off = len(r.data)
		return s
	}
	s := r.data[r.off : r.off+n]
	r.off += n
	return s
}

// Err reports whether a string field ran past the end of the frame.
func (r *Reader) Err() error {
	if r.short {
		return errStringRange
	}
	return nil
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
