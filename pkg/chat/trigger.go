package chat

import "strings"

var (
	inputTableCues = []string{"timetable", "table form"}
	replyTableCues = []string{"tabular"}
)

// ShouldExtractTable is the keyword policy deciding whether a reply is run
// through the table extractor. It is a literal match on the cues above and
// misses tables requested in other words.
func ShouldExtractTable(input, reply string) bool {
	return containsAny(strings.ToLower(input), inputTableCues) ||
		containsAny(strings.ToLower(reply), replyTableCues)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
