// Package segment splits a raw transcript into candidate blocks.
package segment

import (
	"strings"
	"unicode/utf8"
)

// MinLength is the floor for a candidate block: blocks whose trimmed length
// is at or below it are discarded.
const MinLength = 20

// separator delimits blocks in a raw transcript.
const separator = "\n\n"

// Block is a blank-line delimited span of the raw transcript.
type Block struct {
	Index int    // position in document order, counted before filtering
	Text  string // trimmed raw text
}

// Segment splits raw on blank lines, trims each span and drops spans of
// MinLength characters or fewer. Blocks are returned in document order.
func Segment(raw string) []Block {
	var blocks []Block
	for i, span := range strings.Split(raw, separator) {
		text := strings.TrimSpace(span)
		if utf8.RuneCountInString(text) <= MinLength {
			continue
		}
		blocks = append(blocks, Block{Index: i, Text: text})
	}
	return blocks
}

// Join reassembles block texts with the same separator Segment splits on.
func Join(texts []string) string {
	return strings.Join(texts, separator)
}
