package moviesearch

import "github.com/charmbracelet/lipgloss"

var styles = struct {
	row       lipgloss.Style
	highlight lipgloss.Style
	status    lipgloss.Style
	empty     lipgloss.Style
}{
	row:       lipgloss.NewStyle().Foreground(lipgloss.Color("#7B1F2F")),
	highlight: lipgloss.NewStyle().Foreground(lipgloss.Color("#F5E6D3")).Background(lipgloss.Color("#D4A373")).Bold(true),
	status:    lipgloss.NewStyle().Foreground(lipgloss.Color("#D4A373")).Italic(true),
	empty:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")),
}
