// Package htmlsanitize cleans user-entered HTML before it is stored.
//
// Club descriptions and news content are entered by coordinators as rich
// text; everything else that reaches the document store is plain strings.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var policy = bluemonday.UGCPolicy()

// Sanitize strips unsafe tags and attributes, keeping basic formatting
// (paragraphs, emphasis, safe links).
func Sanitize(s string) string {
	return policy.Sanitize(s)
}
