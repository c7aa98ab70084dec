package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorSuccess = lipgloss.AdaptiveColor{Light: "2", Dark: "2"}
	colorError   = lipgloss.AdaptiveColor{Light: "1", Dark: "1"}
	colorPrimary = lipgloss.AdaptiveColor{Light: "5", Dark: "5"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "8", Dark: "8"}

	styleSuccess = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	styleError   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	styleTitle   = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Underline(true)
	styleKey     = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Width(16)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
)

const (
	iconSuccess = "✔"
	iconError   = "✘"
)

func formatSuccess(msg string) string {
	return styleSuccess.Render(iconSuccess+" ") + msg
}

func formatError(msg string) string {
	return styleError.Render(iconError+" ") + msg
}

func renderKeyValue(key string, value any) string {
	return styleKey.Render(key+":") + " " + fmt.Sprint(value)
}
