package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette. 256-colour codes so the output looks the same on dark and light
// terminals.
var (
	colorTeal  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("220")
	colorRed   = lipgloss.Color("167")
	colorSky   = lipgloss.Color("75")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

// Styles shared by the commands and the browser.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorTeal)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorTeal)
	StyleLink      = lipgloss.NewStyle().Foreground(colorSky).Underline(true)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
)

var (
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorTeal)
	styleLabel       = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorSky)
)

// Status line markers.
var (
	markSuccess = lipgloss.NewStyle().Foreground(colorGreen).Render("✓")
	markError   = lipgloss.NewStyle().Foreground(colorRed).Render("✗")
	markWarning = lipgloss.NewStyle().Foreground(colorAmber).Render("!")
	markInfo    = lipgloss.NewStyle().Foreground(colorGray).Render("›")
)

const iconArrow = "→"

func printStatus(mark, format string, args ...any) {
	fmt.Println(mark + " " + fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { printStatus(markSuccess, format, args...) }
func printError(format string, args ...any)   { printStatus(markError, format, args...) }
func printInfo(format string, args ...any)    { printStatus(markInfo, format, args...) }

func printWarning(format string, args ...any) {
	printStatus(markWarning, "%s", lipgloss.NewStyle().Foreground(colorAmber).Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, dimmed line below a status line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile lists a written artifact.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleLabel.Render(key) + " " + StyleValue.Render(value))
}

// printStats summarises an export as "4 views · 10 files · cached".
func printStats(views, artifacts int, cached bool) {
	var parts []string
	if views > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d views", views)))
	}
	if artifacts > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d files", artifacts)))
	}
	if cached {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorGreen).Render("cached"))
	} else {
		parts = append(parts, StyleDim.Render("fresh"))
	}
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}
