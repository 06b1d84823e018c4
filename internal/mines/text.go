package mines

import "fmt"

type enum interface {
	~uint8
	String() string
}

// parseText returns the value among values whose String form is text.
func parseText[T enum](text []byte, kind string, values ...T) (T, error) {
	for _, v := range values {
		if v.String() == string(text) {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("unknown %s %q", kind, text)
}

func (v *Visibility) UnmarshalText(text []byte) (err error) {
	*v, err = parseText(text, "visibility", Hidden, Revealed)
	return
}

func (m *Mark) UnmarshalText(text []byte) (err error) {
	*m, err = parseText(text, "mark", None, Flagged, Questioned)
	return
}

func (s *Status) UnmarshalText(text []byte) (err error) {
	*s, err = parseText(text, "status", InProgress, Won, Lost)
	return
}

func (o *Outcome) UnmarshalText(text []byte) (err error) {
	*o, err = parseText(text, "outcome", Ignored, Opened, Exploded, AllSafeRevealed)
	return
}
