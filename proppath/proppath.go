// Package proppath splits property path expressions such as
// "order.items[0].price" into segments. The grammar is the wire format
// navigation consumers must match: '.' separates segments, an index is
// written as name[key], and there is no escaping of '.' or brackets
// inside a segment.
package proppath

// Segment is one parsed step of a property path plus the unparsed
// remainder. Parsing is total: ill-formed input, like a missing closing
// bracket, is folded literally into the name rather than rejected.
type Segment struct {
	Name    string // base name with index syntax stripped
	Index   string // raw text between brackets
	Indexed bool

	rest    string
	hasRest bool
}

// Parse splits path at the first '.' that is not enclosed by an index
// bracket and extracts the segment's index key, if any.
func Parse(path string) Segment {
	seg := Segment{Name: path}

	if delim := splitPoint(path); delim >= 0 {
		seg.Name = path[:delim]
		seg.rest = path[delim+1:]
		seg.hasRest = true
	}

	// An index is only recognized when the bracket actually closes at
	// the end of the segment; anything else stays part of the name.
	if open := indexOpen(seg.Name); open >= 0 {
		seg.Index = seg.Name[open+1 : len(seg.Name)-1]
		seg.Name = seg.Name[:open]
		seg.Indexed = true
	}

	return seg
}

// HasNext reports whether segments remain after this one.
func (s Segment) HasNext() bool { return s.hasRest }

// Next parses the remainder into the following segment.
func (s Segment) Next() Segment { return Parse(s.rest) }

// Rest returns the unparsed remainder of the path.
func (s Segment) Rest() string { return s.rest }

// IndexedName reproduces the segment in name[index] form.
func (s Segment) IndexedName() string {
	if s.Indexed {
		return s.Name + "[" + s.Index + "]"
	}

	return s.Name
}

// String reproduces the full original path.
func (s Segment) String() string {
	if s.hasRest {
		return s.IndexedName() + "." + s.rest
	}

	return s.IndexedName()
}

// splitPoint returns the position of the first '.' outside brackets, or
// -1 when the whole path is a single segment.
func splitPoint(path string) int {
	depth := 0

	for i := 0; i < len(path); i++ {
		switch path[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case '.':
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

// indexOpen returns the position of the '[' opening a well-formed index,
// or -1 when the segment carries none.
func indexOpen(name string) int {
	if len(name) < 2 || name[len(name)-1] != ']' {
		return -1
	}

	for i := 0; i < len(name); i++ {
		if name[i] == '[' {
			return i
		}
	}

	return -1
}
