// Package tui holds the Bubble Tea browser for vault collections and the
// lipgloss styles, column layout and page footer shared with the CLI renderers.
package tui
