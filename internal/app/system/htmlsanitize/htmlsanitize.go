// Package htmlsanitize cleans user-authored text before it is stored.
//
// Posts and comments may carry light formatting (links, emphasis, lists);
// everything executable is removed. Short plain fields such as report
// reasons go through StripTags, which keeps only text.
package htmlsanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	once   sync.Once
	rich   *bluemonday.Policy
	strict *bluemonday.Policy
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	once.Do(func() {
		p := bluemonday.UGCPolicy()
		p.RequireNoFollowOnLinks(true)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		rich = p
		strict = bluemonday.StrictPolicy()
	})
	return rich, strict
}

// Sanitize keeps safe formatting markup and trims surrounding whitespace.
func Sanitize(s string) string {
	p, _ := policies()
	return strings.TrimSpace(p.Sanitize(s))
}

// StripTags removes all markup.
func StripTags(s string) string {
	_, p := policies()
	return strings.TrimSpace(p.Sanitize(s))
}

// SanitizeAll applies StripTags to each element, dropping ones left empty.
func SanitizeAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if c := StripTags(s); c != "" {
			out = append(out, c)
		}
	}
	return out
}
