package domain

import (
	"fmt"
	"strings"
	"time"
)

// PageTemplate generates the initial content for a page created without text
func PageTemplate(title string, now time.Time) string {
	title = formatTitle(title)

	return fmt.Sprintf(`---
title: %q
created: %s
---

# %s

%s.
`, title, now.Format("2006/01/02"), title, "Content pending")
}

// TitleFromSegment turns a path segment like "getting-started" into
// "Getting started"
func TitleFromSegment(segment string) string {
	return formatTitle(segment)
}

// formatTitle creates a display title from a page name
func formatTitle(name string) string {
	name = strings.TrimSpace(strings.NewReplacer("-", " ", "_", " ").Replace(name))
	if name == "" {
		return "Untitled"
	}

	// Capitalize first letter
	return strings.ToUpper(name[:1]) + name[1:]
}
