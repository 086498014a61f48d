package domain

// ResponseState tags a response value as one of a closed set, so an
// unrecognized raw string can never be mistaken for a valid category.
type ResponseState int

const (
	// ResponseKnown is a value that normalized into the configured vocabulary.
	ResponseKnown ResponseState = iota
	// ResponseBlank is an empty cell.
	ResponseBlank
	// ResponseUnknown is a non-empty value outside the vocabulary. The raw
	// string is retained so a marker can still be placed at its day.
	ResponseUnknown
)

// Response is a parsed value cell: a canonical vocabulary value, a blank,
// or an unrecognized raw string.
type Response struct {
	State ResponseState `json:"state"`
	// Value holds the canonical form for ResponseKnown and the raw input
	// for ResponseUnknown. Empty for ResponseBlank.
	Value string `json:"value,omitempty"`
}

// Known builds a canonical vocabulary response.
func Known(canonical string) Response {
	return Response{State: ResponseKnown, Value: canonical}
}

// Blank builds an empty-cell response.
func Blank() Response {
	return Response{State: ResponseBlank}
}

// Unknown builds a response for a value outside the vocabulary.
func Unknown(raw string) Response {
	return Response{State: ResponseUnknown, Value: raw}
}

// Render returns the cell text for output: the canonical value, the
// configured blank marker, or the configured unknown marker.
func (r Response) Render(blankMarker, unknownMarker string) string {
	switch r.State {
	case ResponseBlank:
		return blankMarker
	case ResponseUnknown:
		return unknownMarker
	default:
		return r.Value
	}
}
