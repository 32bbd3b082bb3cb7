package glowtree

// Mode is the active particle formation.
type Mode uint8

const (
	ModeTree    Mode = iota // cone spiral with the star visible
	ModeExplode             // particles scattered on a spherical shell
	ModeText                // particles spell the configured text
	modeCount
)

// nextMode is the cyclic transition table.
var nextMode = [modeCount]Mode{
	ModeTree:    ModeExplode,
	ModeExplode: ModeText,
	ModeText:    ModeTree,
}

var modeNames = [modeCount]string{
	ModeTree:    "tree",
	ModeExplode: "explode",
	ModeText:    "text",
}

// Next returns the mode that follows m in the Tree → Explode → Text cycle.
// Unknown values restart the cycle at Tree.
func (m Mode) Next() Mode {
	if m >= modeCount {
		return ModeTree
	}
	return nextMode[m]
}

func (m Mode) String() string {
	if m >= modeCount {
		return "unknown"
	}
	return modeNames[m]
}
