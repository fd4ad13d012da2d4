package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/vaultctl/internal/vault"
)

const browserHelp = "tab switch • n/p page • 1-9 jump • g goto • / search • f filter • r refresh • enter detail • q quit"

// View renders the current screen (Bubble Tea interface).
func (m BrowserModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateDetail:
		return lipgloss.JoinVertical(lipgloss.Left, m.renderTabs(), m.renderDetailView())
	case ViewStateList, ViewStateSearch, ViewStateGoto:
		return m.renderListView()
	default:
		return ""
	}
}

func (m BrowserModel) renderTabs() string {
	tabs := make([]string, len(m.views))
	for i, view := range m.views {
		label := view.Title()
		if meta := m.panes[view].engine.Metadata(); m.panes[view].engine.Loaded() {
			label += " (" + strconv.Itoa(meta.TotalElements) + ")"
		}
		if i == m.active {
			tabs[i] = ActiveTabStyle.Render(label)
		} else {
			tabs[i] = TabStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m BrowserModel) renderListView() string {
	view := m.ActiveView()
	p := m.panes[view]
	snap := p.engine.Snapshot()

	sections := []string{m.renderTabs(), m.renderQueryLine()}

	switch {
	case !snap.Loaded && p.inflight > 0:
		sections = append(sections, m.loading.View())
	case !snap.Loaded:
		sections = append(sections, SubtleStyle.Render("Not loaded yet. Press 'r' to load."))
	case len(snap.Records) == 0:
		sections = append(sections, SubtleStyle.Render(EmptyText(view, snap.Query.Searching())))
	case len(snap.Visible) == 0:
		sections = append(sections, m.table.View(),
			SubtleStyle.Render("No files on this page match the filter."))
	default:
		sections = append(sections, m.table.View())
	}

	if snap.Loaded {
		sections = append(sections, PageFooter(snap.Metadata, snap.Range, true))
	}
	if line := m.renderStatusLine(p.inflight > 0 && snap.Loaded); line != "" {
		sections = append(sections, line)
	}

	switch m.state {
	case ViewStateSearch:
		sections = append(sections, m.search.View())
	case ViewStateGoto:
		sections = append(sections, LabelStyle.Render("Go to page: ")+m.gotoBuf)
	case ViewStateList, ViewStateDetail, ViewStateQuitting:
	}

	sections = append(sections, SubtleStyle.Render(browserHelp))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m BrowserModel) renderQueryLine() string {
	q := m.panes[m.ActiveView()].engine.Query()
	mode := "Browse"
	if kw := q.ActiveKeyword(); kw != "" {
		mode = fmt.Sprintf("Search %q (esc to clear)", kw)
	}
	return LabelStyle.Render(mode + " | Filter: " + q.Filter.String())
}

func (m BrowserModel) renderStatusLine(busy bool) string {
	var parts []string
	if busy {
		parts = append(parts, m.loading.View())
	}
	if m.status != "" {
		if m.statusErr {
			parts = append(parts, CriticalStyle.Render("Error: "+m.status))
		} else {
			parts = append(parts, InfoStyle.Render(m.status))
		}
	}
	return strings.Join(parts, "  ")
}

func (m BrowserModel) renderDetailView() string {
	f, ok := m.selectedFile()
	if !ok {
		return SubtleStyle.Render("No file selected. Press ESC to return.")
	}

	var content strings.Builder
	content.WriteString(HeaderStyle.Render("FILE DETAIL"))
	content.WriteString("\n\n")
	writeField(&content, "ID:          ", strconv.FormatInt(f.ID, 10))
	writeField(&content, "Name:        ", f.Filename)
	writeField(&content, "Category:    ", CategoryLabel(f.Category))
	if f.Description != "" {
		writeField(&content, "Description: ", f.Description)
	}
	if f.CreatedAt != "" {
		writeField(&content, "Created:     ", CreatedLabel(f))
	}
	switch m.ActiveView() {
	case vault.CollectionReceived:
		writeField(&content, "From:        ", orDash(f.SenderName))
		writeField(&content, "Sensitive:   ", SensitivityLabel(f.Sensitivity()))
	case vault.CollectionShared:
		writeField(&content, "To:          ", orDash(f.ReceiverName))
		writeField(&content, "Sensitive:   ", SensitivityLabel(f.Sensitivity()))
	case vault.CollectionOwn:
	}
	content.WriteString(SubtleStyle.Render("\nPress ESC to return"))

	return BoxStyle.Width(m.width - borderPadding).Render(content.String())
}

func writeField(content *strings.Builder, label, value string) {
	content.WriteString(LabelStyle.Render(label))
	content.WriteString(ValueStyle.Render(value))
	content.WriteString("\n")
}

// EmptyText is the message shown for an empty page.
func EmptyText(view vault.Collection, searching bool) string {
	if searching {
		return "No files match the search."
	}
	switch view {
	case vault.CollectionReceived:
		return "Nobody has shared a file with you yet."
	case vault.CollectionShared:
		return "You have not shared any files yet."
	default:
		return "No files uploaded yet."
	}
}
