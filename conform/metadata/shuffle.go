package metadata

// Shuffle turns the byte-shuffle filter on or off.
type Shuffle string

const (
	ShuffleOff Shuffle = "off"
	ShuffleOn  Shuffle = "on"
)

// Valid returns true only for "on" and "off".
func (s Shuffle) Valid() bool {
	return s == ShuffleOn || s == ShuffleOff
}
