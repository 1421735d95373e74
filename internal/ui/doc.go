// Package ui provides styled terminal output for plantdash's non-interactive
// commands: the colour palette, status symbols, tables and the header.
//
// The full-screen dashboard lives in internal/dashboard and has its own
// styles; this package covers plain CLI output such as 'plantdash catalog'
// and 'plantdash history'.
//
// # Color Scheme
//
//	ColorSuccess   (green)  - healthy values, passed checks
//	ColorError     (red)    - failures and critical values
//	ColorWarning   (yellow) - warnings such as unresolved widgets
//	ColorInfo      (cyan)   - informational accents
//	ColorMuted     (gray)   - secondary text
//
// Use DisableColors() to switch to monochrome output (for --no-color).
package ui
