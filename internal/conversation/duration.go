package conversation

import (
	"regexp"
	"strconv"
	"strings"
)

// durationPattern matches the first "<integer> <unit>" mention in prose,
// e.g. "Bake for 10 minutes" or "simmer 45 sec". Longer unit spellings
// come first in the alternation so "minutes" is not cut to "min".
var durationPattern = regexp.MustCompile(`(?i)\b(\d+)\s*(minutes?|mins?|min|hours?|hrs?|hr|seconds?|secs?|sec)\b`)

// quickThresholdSeconds is the cutoff below which a recipe counts as quick.
const quickThresholdSeconds = 1800

// DetectDurationSeconds scans text for its first duration mention and
// returns it in seconds, or 0 when no duration is found.
func DetectDurationSeconds(text string) int {
	m := durationPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}

	unit := strings.ToLower(m[2])
	switch {
	case strings.HasPrefix(unit, "h"):
		return n * 3600
	case strings.HasPrefix(unit, "m"):
		return n * 60
	default:
		return n
	}
}

// IsQuick reports whether a recipe's combined prep and cook time is half
// an hour or less. Unparseable fields count as zero; a recipe with no
// parseable time at all is not quick.
func IsQuick(prepTime, cookTime string) bool {
	total := DetectDurationSeconds(prepTime) + DetectDurationSeconds(cookTime)
	return total > 0 && total <= quickThresholdSeconds
}
