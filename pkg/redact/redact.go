// Package redact masks secrets in command lines and captured output before
// they reach logs or terminals.
package redact

import (
	"regexp"
	"strings"
)

const mask = "******"

// Redactor rewrites text so that secrets are masked.
type Redactor func(text string) string

// Unredacted is the identity [Redactor].
var Unredacted = Literals(nil)

// Literals returns a [Redactor] that replaces every occurrence of the given
// items.
func Literals(items []string) Redactor {
	return func(text string) string {
		for _, item := range items {
			if item == "" {
				continue
			}

			text = strings.ReplaceAll(text, item, mask)
		}

		return text
	}
}

// Pattern returns a [Redactor] that masks every match of re. If re contains a
// capture group, the first group is preserved as a recognizable prefix.
func Pattern(re *regexp.Regexp) Redactor {
	return func(text string) string {
		return re.ReplaceAllStringFunc(text, func(match string) string {
			groups := re.FindStringSubmatch(match)
			if len(groups) > 1 && groups[1] != "" {
				return groups[1] + mask
			}

			return mask
		})
	}
}

// Chain composes multiple redactors into one, applied in order.
func Chain(rs ...Redactor) Redactor {
	return func(text string) string {
		for _, r := range rs {
			if r == nil {
				continue
			}

			text = r(text)
		}

		return text
	}
}
