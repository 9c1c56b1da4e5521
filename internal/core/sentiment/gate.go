package sentiment

// SkipThreshold is the top score above which translation is not attempted
const SkipThreshold = 0.95

// ShouldSkipTranslation reports whether a direct verdict is confident enough to skip translation
func ShouldSkipTranslation(topScore float64) bool { return topScore > SkipThreshold }
