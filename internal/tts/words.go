package tts

import "strings"

// MaxScriptWords is the maximum script length accepted by Dispatch. Shared
// with the UI so validation and display never disagree.
const MaxScriptWords = 20000

// CountWords counts whitespace-delimited tokens in script. Runs of
// whitespace do not produce empty tokens.
func CountWords(script string) int {
	return len(strings.Fields(script))
}
