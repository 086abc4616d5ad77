// Package splitter breaks compound user messages into sequential requests
// so each one runs through the dialogue engine on its own.
package splitter

import "strings"

const (
	// shortUtteranceWords is the length below which a message is never
	// split. Short messages with connector words ("go and also eat") are
	// almost always a single request.
	shortUtteranceWords = 5

	// maxSegments caps how many requests one message can expand into.
	maxSegments = 3
)

// markers are the connector phrases that separate chained requests,
// checked in order at each split point.
var markers = []string{
	" and also ",
	" and then ",
	". also ",
	"; also ",
	" plus ",
	" after that ",
}

// Split cuts an utterance at connector phrases into at most maxSegments
// trimmed segments, earliest first. Messages of shortUtteranceWords words
// or fewer come back whole.
func Split(utterance string) []string {
	trimmed := strings.TrimSpace(utterance)
	if trimmed == "" {
		return nil
	}
	if len(strings.Fields(trimmed)) <= shortUtteranceWords {
		return []string{trimmed}
	}

	segments := make([]string, 0, maxSegments)
	rest := trimmed
	for len(segments) < maxSegments-1 {
		idx, width := firstMarker(rest)
		if idx < 0 {
			break
		}
		head := strings.TrimSpace(rest[:idx])
		rest = strings.TrimSpace(rest[idx+width:])
		if head != "" {
			segments = append(segments, head)
		}
		if rest == "" {
			break
		}
	}
	if rest != "" {
		segments = append(segments, rest)
	}
	return segments
}

// firstMarker finds the earliest marker occurrence, matching
// case-insensitively, and returns its byte offset and width.
func firstMarker(s string) (int, int) {
	haystack := strings.ToLower(s)
	if len(haystack) != len(s) {
		// Lowercasing shifted byte offsets; match exact case only.
		haystack = s
	}

	best, width := -1, 0
	for _, marker := range markers {
		if idx := strings.Index(haystack, marker); idx >= 0 && (best < 0 || idx < best) {
			best, width = idx, len(marker)
		}
	}
	return best, width
}
