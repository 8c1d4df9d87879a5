package storybar

import "github.com/charmbracelet/lipgloss"

var segmentStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240"))

var currentSegmentStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255"))

var titleStyle = lipgloss.NewStyle().
	Bold(true)

var metaStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("244"))

var errorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196"))
