package duck

import "strings"

// BoardRenderer turns a board state into something displayable. The caller
// passes HazardHidden for hazardLane on every frame except the crash frame;
// a renderer never learns where the hazard is ahead of time.
type BoardRenderer interface {
	RenderBoard(position, hazardLane, laneCount int) string
}

// EmojiBoard draws the board as a single line of emoji: grass, the lanes,
// and the finish flag.
type EmojiBoard struct{}

func (EmojiBoard) RenderBoard(position, hazardLane, laneCount int) string {
	var b strings.Builder

	if position < 0 {
		b.WriteString("🦆")
	} else {
		b.WriteString("🌱")
	}

	for lane := 0; lane < laneCount; lane++ {
		switch {
		case lane == position && lane == hazardLane:
			b.WriteString("💥")
		case lane == position:
			b.WriteString("🦆")
		case lane == hazardLane:
			b.WriteString("🚗")
		default:
			b.WriteString("🛣️")
		}
	}

	if position >= laneCount {
		b.WriteString("🦆")
	} else {
		b.WriteString("🏁")
	}
	return b.String()
}
