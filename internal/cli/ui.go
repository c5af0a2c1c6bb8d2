package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/rackscape/pkg/rack"
)

// Terminal palette (ANSI 256).
var (
	colorAccent  = lipgloss.Color("36")
	colorOK      = lipgloss.Color("35")
	colorWarn    = lipgloss.Color("220")
	colorFail    = lipgloss.Color("167")
	colorCommand = lipgloss.Color("75")
	colorText    = lipgloss.Color("255")
	colorLabel   = lipgloss.Color("245")
	colorMuted   = lipgloss.Color("240")

	// Mount sides, as drawn in profile tables.
	colorFront = lipgloss.Color("79")
	colorBack  = lipgloss.Color("141")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleAccent  = lipgloss.NewStyle().Foreground(colorAccent)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleText    = lipgloss.NewStyle().Foreground(colorText)
	styleLabel   = lipgloss.NewStyle().Foreground(colorLabel)
	styleWarn    = lipgloss.NewStyle().Foreground(colorWarn)
	styleOK      = lipgloss.NewStyle().Foreground(colorOK)
	styleFail    = lipgloss.NewStyle().Foreground(colorFail)
	styleCommand = lipgloss.NewStyle().Foreground(colorCommand)
	styleKey     = styleLabel.Width(12)
)

// sideStyle colours a mount side.
func sideStyle(s rack.MountSide) lipgloss.Style {
	if s == rack.Back {
		return lipgloss.NewStyle().Foreground(colorBack)
	}
	return lipgloss.NewStyle().Foreground(colorFront)
}

// printer writes styled status lines for humans. Machine-readable output
// (profiles on stdout, cache paths) bypasses it.
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) printer { return printer{w: w} }

func (p printer) line(icon lipgloss.Style, glyph, format string, args ...any) {
	fmt.Fprintln(p.w, icon.Render(glyph)+" "+fmt.Sprintf(format, args...))
}

func (p printer) success(format string, args ...any) { p.line(styleOK, "✓", format, args...) }

func (p printer) failure(format string, args ...any) { p.line(styleFail, "✗", format, args...) }

func (p printer) info(format string, args ...any) { p.line(styleLabel, "›", format, args...) }

func (p printer) warning(format string, args ...any) {
	fmt.Fprintln(p.w, styleWarn.Render("! "+fmt.Sprintf(format, args...)))
}

// detail prints an indented muted line.
func (p printer) detail(format string, args ...any) {
	fmt.Fprintln(p.w, "  "+styleMuted.Render(fmt.Sprintf(format, args...)))
}

// file prints a written output path.
func (p printer) file(path string) {
	fmt.Fprintln(p.w, "  "+styleMuted.Render("→")+" "+styleText.Render(path))
}

func (p printer) keyValue(key, value string) {
	fmt.Fprintln(p.w, styleKey.Render(key)+" "+styleText.Render(value))
}

// hallStats prints layout statistics on one line.
func (p printer) hallStats(s rack.Stats, cached bool) {
	parts := []string{
		styleMuted.Render(fmt.Sprintf("%d cabinets", s.Cabinets)),
		styleMuted.Render(fmt.Sprintf("%d devices", s.Placed)),
	}
	if s.Skipped > 0 {
		parts = append(parts, styleMuted.Render(fmt.Sprintf("%d empty slots", s.Skipped)))
	}
	if s.MissingTextures > 0 {
		parts = append(parts, styleWarn.Render(fmt.Sprintf("%d untextured", s.MissingTextures)))
	}
	if cached {
		parts = append(parts, styleOK.Render("cached"))
	} else {
		parts = append(parts, styleLabel.Render("fresh"))
	}
	fmt.Fprintln(p.w, "  "+strings.Join(parts, styleMuted.Render(" · ")))
}

// nextStep suggests a follow-up command after a blank line.
func (p printer) nextStep(description, cmd string) {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, styleMuted.Render(description+":")+" "+styleCommand.Render(cmd))
}
