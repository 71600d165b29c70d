// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides filename- and URL-friendly slug generation from
// arbitrary post titles.
package slug

import (
	"strings"
)

// Generate creates a lowercase ASCII slug from the given string. Letters
// and digits are kept, runs of anything else collapse into a single
// hyphen. Non-Latin titles (e.g. Chinese) may slug to the empty string;
// callers that need a non-empty key must append their own discriminator.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pending := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		// Everything else — punctuation, spaces, non-ASCII runes —
		// separates words. Slugs stay ASCII so they are safe as
		// filenames and object keys.
		pending = true
	}

	return b.String()
}
