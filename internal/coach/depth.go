package coach

// DepthFor maps a player rating to an engine search depth. Unknown
// ratings get a middle-of-the-road depth. The buckets are deliberately
// independent from SkillTier's thresholds.
func DepthFor(elo *int) int {
	if elo == nil {
		return 12
	}
	switch {
	case *elo < 800:
		return 8
	case *elo < 1200:
		return 10
	case *elo < 1600:
		return 12
	case *elo < 2000:
		return 15
	default:
		return 18
	}
}
