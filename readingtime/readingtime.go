// Package readingtime estimates how long a post takes to read.
package readingtime

import (
	"strconv"
	"strings"

	"spacetraveling/richtext"
)

// WordsPerMinute is the assumed reading speed.
const WordsPerMinute = 200

// Section is one heading with its body blocks.
type Section struct {
	Heading string
	Body    []richtext.Block
}

// CountWords splits the plain text of a body on single spaces. Empty tokens are
// not counted; tabs and line breaks are not separators.
func CountWords(body []richtext.Block) int {
	n := 0
	for _, tok := range strings.Split(richtext.AsText(body), " ") {
		if tok != "" {
			n++
		}
	}
	return n
}

// Estimate returns ceil(words/WordsPerMinute) over all sections. No words gives 0.
func Estimate(sections []Section) int {
	total := 0
	for _, s := range sections {
		total += CountWords(s.Body)
	}
	return (total + WordsPerMinute - 1) / WordsPerMinute
}

// Label formats minutes the way post pages show them, e.g. "4 min".
func Label(minutes int) string {
	return strconv.Itoa(minutes) + " min"
}
