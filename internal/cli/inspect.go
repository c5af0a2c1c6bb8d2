package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rackscape/pkg/io"
	"github.com/matzehuels/rackscape/pkg/rack"
	"github.com/matzehuels/rackscape/pkg/scene"
)

// inspectCommand creates the interactive pick-and-paint command.
func (c *CLI) inspectCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "inspect <hall.json>",
		Short: "Pick and paint objects of a laid-out hall",
		Long: `Inspect a laid-out hall in the terminal.

A pointer moves over the floor plan; the object under it is found by
casting a ray straight down from above the hall. Floor tiles can be
painted with the colours of the palette and the result saved back as
scene JSON.

Keys: arrows move, [ ] change step, c cycles colour, space paints,
w writes, q quits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := io.ImportJSON(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = args[0]
			}
			m, err := tea.NewProgram(newInspectModel(root, output), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			if im, ok := m.(inspectModel); ok && im.dirty {
				newPrinter(cmd.ErrOrStderr()).warning("Unsaved paint discarded")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "file written by 'w' (default: the input file)")
	return cmd
}

var inspectKeyStyle = styleLabel.Width(14)

// inspectModel is the bubbletea model for the inspect command.
type inspectModel struct {
	root   *scene.Node
	output string
	bounds scene.Box3

	x, z  float64
	step  float64
	color int

	hit    scene.Hit
	hasHit bool
	status string
	dirty  bool
}

func newInspectModel(root *scene.Node, output string) inspectModel {
	b := scene.BoundingBox(root)
	if b.IsEmpty() {
		b = scene.BoxFromSize(scene.V3(1, 1, 1))
	}
	c := b.Center()
	size := b.Size()
	m := inspectModel{
		root:   root,
		output: output,
		bounds: b,
		x:      c.X,
		z:      c.Z,
		step:   max(0.1, max(size.X, size.Z)/50),
	}
	m.pick()
	return m
}

// pick casts a ray straight down through the pointer.
func (m *inspectModel) pick() {
	ray := scene.Ray{
		Origin: scene.V3(m.x, m.bounds.Max.Y+1, m.z),
		Dir:    scene.V3(0, -1, 0),
	}
	m.hit, m.hasHit = scene.Pick(m.root, ray)
}

func (m *inspectModel) move(dx, dz float64) {
	m.x = min(max(m.x+dx*m.step, m.bounds.Min.X), m.bounds.Max.X)
	m.z = min(max(m.z+dz*m.step, m.bounds.Min.Z), m.bounds.Max.Z)
	m.pick()
}

func (m inspectModel) currentColor() string {
	return scene.Palette[m.color%len(scene.Palette)]
}

func (m inspectModel) Init() tea.Cmd {
	return nil
}

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.status = ""
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "h":
		m.move(-1, 0)
	case "right", "l":
		m.move(1, 0)
	case "up", "k":
		m.move(0, -1)
	case "down", "j":
		m.move(0, 1)
	case "[":
		m.step = max(0.01, m.step/2)
	case "]":
		m.step *= 2
	case "c":
		m.color = (m.color + 1) % len(scene.Palette)
	case " ", "enter":
		m.paint()
	case "w":
		if err := io.ExportJSON(m.root, m.output); err != nil {
			m.status = "write failed: " + err.Error()
		} else {
			m.status = "wrote " + m.output
			m.dirty = false
		}
	}
	return m, nil
}

func (m *inspectModel) paint() {
	if !m.hasHit {
		m.status = "nothing under the pointer"
		return
	}
	if c, ok := scene.SwatchColor(m.hit.Node); ok {
		if i := slices.Index(scene.Palette, c); i >= 0 {
			m.color = i
		}
		m.status = "picked " + c
		return
	}
	if !scene.Paint(m.hit.Node, m.currentColor()) {
		m.status = m.hit.Node.Name + " cannot be painted"
		return
	}
	m.dirty = true
	m.status = fmt.Sprintf("painted %s %s", m.hit.Node.Name, m.currentColor())
}

func (m inspectModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Inspect " + m.root.Name))
	b.WriteString("\n")
	b.WriteString(styleMuted.Render("←/→/↑/↓ move  [ ] step  c colour  ␣ paint  w write  q quit"))
	b.WriteString("\n\n")

	row := func(k, v string) {
		b.WriteString(inspectKeyStyle.Render(k) + " " + styleText.Render(v) + "\n")
	}
	row("pointer", fmt.Sprintf("x=%.2f z=%.2f (step %.2f)", m.x, m.z, m.step))
	swatch := lipgloss.NewStyle().Background(lipgloss.Color(colorHex(m.currentColor()))).Render("   ")
	row("colour", swatch+" "+m.currentColor())
	b.WriteString("\n")

	if m.hasHit {
		b.WriteString(hitTable(m.hit).Render())
	} else {
		b.WriteString(styleMuted.Render("nothing under the pointer"))
	}
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString("\n" + styleAccent.Render(m.status) + "\n")
	}
	if m.dirty {
		b.WriteString(styleWarn.Render("unsaved changes") + "\n")
	}
	return b.String()
}

// hitTable describes the picked node and its enclosing device and cabinet.
func hitTable(h scene.Hit) *table.Table {
	rows := [][]string{
		{"node", h.Node.Name},
		{"kind", h.Node.Kind.String()},
		{"distance", fmt.Sprintf("%.3f", h.Distance)},
		{"point", fmt.Sprintf("%.2f, %.2f, %.2f", h.Point.X, h.Point.Y, h.Point.Z)},
	}
	for _, k := range slices.Sorted(maps.Keys(h.Node.Tags)) {
		rows = append(rows, []string{k, h.Node.Tags[k]})
	}
	for p := h.Node.Parent(); p != nil; p = p.Parent() {
		if u := p.Tag(rack.TagRackPosition); u != "" {
			rows = append(rows, []string{"device", fmt.Sprintf("%s (U%s)", p.Name, u)})
		}
		if slot := p.Tag(rack.TagSlot); slot != "" {
			rows = append(rows, []string{"cabinet", fmt.Sprintf("%s (slot %s)", p.Name, slot)})
			break
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleMuted).
		Rows(rows...).
		StyleFunc(func(_, col int) lipgloss.Style {
			if col == 0 {
				return styleLabel.Padding(0, 1)
			}
			return styleText.Padding(0, 1)
		})
}

// colorHex maps palette names to terminal colours; hex values pass through.
func colorHex(c string) string {
	if strings.HasPrefix(c, "#") {
		return c
	}
	if h, ok := namedColors[c]; ok {
		return h
	}
	return "#ffffff"
}

var namedColors = map[string]string{
	"lavender":      "#e6e6fa",
	"lightblue":     "#add8e6",
	"lightgreen":    "#90ee90",
	"lightyellow":   "#ffffe0",
	"lightcoral":    "#f08080",
	"lightpink":     "#ffb6c1",
	"lightseagreen": "#20b2aa",
	"lightskyblue":  "#87cefa",
	"white":         "#ffffff",
}
