package fcsh

import (
	"regexp"
	"strconv"
	"strings"
)

// successArtifact matches the "artifact written" line fcsh prints after a
// successful compile, e.g. "/build/main.swf (153624 bytes)".
var successArtifact = regexp.MustCompile(`\.sw[fc] \(\d+ bytes\)`)

// successUnchanged is fcsh's response when an incremental compile finds
// no work to do. Also a success.
const successUnchanged = "Nothing has changed since the last compile"

// idLabel prefixes the id line of each record in "info" output.
const idLabel = "id:"

// nonDigits strips everything but digits from an id value.
var nonDigits = regexp.MustCompile(`[^0-9]`)

// Filter removes echo noise from a transcript: lines that are exactly the
// echoed prompt, and lines containing the injected command (the terminal
// echoes typed input back into the pipe). It preserves the order of the
// remaining lines and is idempotent.
func Filter(transcript, command string) string {
	var kept []string
	for _, line := range strings.Split(transcript, "\n") {
		if strings.TrimRight(line, " \t\r") == strings.TrimRight(Prompt, " ") {
			continue
		}
		if command != "" && strings.Contains(line, command) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// CompileSucceeded reports whether a compile transcript carries either
// success marker: an artifact-written line or the nothing-changed notice.
// The transcript is otherwise passed through to the user untouched; fcshctl
// never interprets compiler diagnostics.
func CompileSucceeded(transcript string) bool {
	if successArtifact.MatchString(transcript) {
		return true
	}
	return strings.Contains(transcript, successUnchanged)
}

// ParseTargetID scans "info" output for the first record matching search
// and extracts its numeric id. Each record surfaces as an "id: N" line
// with the compile command (containing the source path) on an adjacent
// line, so the id is looked for within one line of context around every
// line mentioning search. Returns 0 when nothing matches.
//
// When search is a substring of several targets' filenames the first
// record wins; that is an accepted approximation, not a uniqueness
// guarantee.
func ParseTargetID(transcript, search string) int {
	if search == "" {
		return 0
	}
	lines := strings.Split(transcript, "\n")
	for i, line := range lines {
		if !strings.Contains(line, search) {
			continue
		}
		lo, hi := i-1, i+1
		if lo < 0 {
			lo = 0
		}
		if hi > len(lines)-1 {
			hi = len(lines) - 1
		}
		for j := lo; j <= hi; j++ {
			rest, ok := strings.CutPrefix(strings.TrimSpace(lines[j]), idLabel)
			if !ok {
				continue
			}
			digits := nonDigits.ReplaceAllString(rest, "")
			if digits == "" {
				continue
			}
			id, err := strconv.Atoi(digits)
			if err != nil || id <= 0 {
				continue
			}
			return id
		}
	}
	return 0
}
