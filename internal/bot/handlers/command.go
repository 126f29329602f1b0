package handlers

import "strings"

// ParseCommand extracts the lower-cased command name from "/name", "/name@bot" or "/name args".
func ParseCommand(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}

	name := strings.TrimPrefix(text, "/")
	if idx := strings.IndexAny(name, " \t\n"); idx >= 0 {
		name = name[:idx]
	}
	if idx := strings.IndexByte(name, '@'); idx >= 0 {
		name = name[:idx]
	}
	if name == "" {
		return "", false
	}

	return strings.ToLower(name), true
}
