package source

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Detection windows, in characters from the start of the file.
const (
	vttWindow    = 200
	plaudWindow  = 2000
	notionWindow = 5000
)

// Notion transcript heuristics.
const (
	// notionMinLine is the line index after which conversational lines are
	// considered the start of the raw transcript.
	notionMinLine = 50

	// notionMinLength is the minimum trimmed length of a transcript line.
	notionMinLength = 100

	// notionHeadingWindow is how many lines after a "Transcript" heading are
	// searched for the first long line.
	notionHeadingWindow = 50
)

var (
	plaudHeaderRe = regexp.MustCompile(`Speaker \d+.*\d{2}:\d{2}:\d{2}`)
	vttCueIndexRe = regexp.MustCompile(`^\d+$`)
	vttTimingRe   = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{3}\s*-->`)
)

// notionMarkupPrefixes start lines that belong to the notes section.
var notionMarkupPrefixes = []string{"#", "-", "*", "|", ">"}

// notionSpeechMarkers are lowercase fragments typical of spoken openings.
var notionSpeechMarkers = []string{"so ", "okay", "yeah", "thank", "hello", "morning", "welcome"}

// Detect guesses the source type from content patterns.
// Falls back to GenericType when nothing matches.
func Detect(text string) Type {
	if strings.Contains(prefix(text, vttWindow), "WEBVTT") {
		return ZoomType
	}
	if plaudHeaderRe.MatchString(prefix(text, plaudWindow)) {
		return PlaudType
	}
	if strings.HasPrefix(text, "# ") && strings.Contains(prefix(text, notionWindow), "Transcript") {
		return NotionType
	}
	return GenericType
}

// Split separates text into a preserved notes section and the raw transcript.
// Unknown, zero and auto types use the generic adapter (whole file is transcript).
func Split(t Type, text string) (notes, raw string) {
	switch t.name {
	case Notion:
		return splitNotion(text)
	case Zoom, Teams:
		return splitVTT(text)
	default:
		// Plaud exports carry no notes section either.
		return "", text
	}
}

// splitNotion finds where the raw transcript begins in a Notion export.
func splitNotion(text string) (string, string) {
	lines := strings.Split(text, "\n")
	start := notionTranscriptStart(lines)
	return strings.Join(lines[:start], "\n"), strings.Join(lines[start:], "\n")
}

func notionTranscriptStart(lines []string) int {
	for i, line := range lines {
		if i <= notionMinLine {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if utf8.RuneCountInString(trimmed) <= notionMinLength || hasAnyPrefix(trimmed, notionMarkupPrefixes) {
			continue
		}
		lower := strings.ToLower(trimmed)
		for _, marker := range notionSpeechMarkers {
			if strings.Contains(lower, marker) {
				return i
			}
		}
	}

	// Fall back to the first long line under a "Transcript" heading.
	for i, line := range lines {
		if strings.TrimSpace(line) != "Transcript" {
			continue
		}
		end := min(i+notionHeadingWindow, len(lines))
		for j := i + 1; j < end; j++ {
			if utf8.RuneCountInString(strings.TrimSpace(lines[j])) > notionMinLength {
				return j
			}
		}
		break
	}

	return len(lines) / 4
}

// splitVTT strips WebVTT framing and returns cue text as blank-line separated blocks.
func splitVTT(text string) (string, string) {
	var (
		blocks  []string
		current []string
	)
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "WEBVTT" || vttCueIndexRe.MatchString(trimmed) || vttTimingRe.MatchString(trimmed) {
			continue
		}
		if trimmed != "" {
			current = append(current, trimmed)
			continue
		}
		if len(current) > 0 {
			blocks = append(blocks, strings.Join(current, " "))
			current = nil
		}
	}
	if len(current) > 0 {
		blocks = append(blocks, strings.Join(current, " "))
	}
	return "", strings.Join(blocks, "\n\n")
}

// prefix returns at most the first n characters of s.
func prefix(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
