// Package templates renders the HTML pages and HTMX partials of the budget
// desk. Every page has a Content component (the swappable body) and a Page
// component that wraps it in the layout. Components live in .templ files;
// the *_templ.go files are generated by templ.
package templates

import (
	"strconv"
	"strings"
)

func itoa(n int) string {
	return strconv.Itoa(n)
}

// isActive reports whether path belongs to the nav section href.
func isActive(href, path string) bool {
	if href == "/" {
		return path == "/"
	}
	return path == href || strings.HasPrefix(path, href+"/")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
