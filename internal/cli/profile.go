package cli

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rackscape/pkg/rack"
	"github.com/matzehuels/rackscape/pkg/rack/profile"
)

// profileCommand creates the profile command group.
func (c *CLI) profileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "List, show, validate, export and generate device profiles",
		Long: `A device profile is the table of devices mounted in every cabinet: height in
rack units, depth as a fraction of the cabinet, top unit and mount side.
Profiles are built in (see 'profile list') or read from .toml/.json files.`,
	}

	cmd.AddCommand(c.profileListCommand())
	cmd.AddCommand(c.profileShowCommand())
	cmd.AddCommand(c.profileValidateCommand())
	cmd.AddCommand(c.profileExportCommand())
	cmd.AddCommand(c.profileRandomCommand())

	return cmd
}

func (c *CLI) profileListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List built-in profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, name := range profile.Names() {
				p, _ := profile.Builtin(name)
				fmt.Fprintf(out, "%s %s\n", styleAccent.Render(fmt.Sprintf("%-12s", name)), styleMuted.Render(fmt.Sprintf("%d devices", p.Len())))
			}
			return nil
		},
	}
}

func (c *CLI) profileShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "show <name|file>",
		Short:             "Show the devices of a profile",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFirstProfile,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := profile.Resolve(args[0])
			if err != nil {
				return err
			}
			renderProfile(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

func (c *CLI) profileValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check profile files for malformed or overlapping devices",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newPrinter(cmd.OutOrStdout())
			var failed int
			for _, path := range args {
				p, err := profile.Import(path)
				if err != nil {
					out.failure("%s: %v", path, err)
					failed++
					continue
				}
				out.success("%s %s", path, styleMuted.Render(fmt.Sprintf("(%d devices)", p.Len())))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d profiles invalid", failed, len(args))
			}
			return nil
		},
	}
}

func (c *CLI) profileExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <name|file> <output>",
		Short: "Write a profile as .toml or .json",
		Example: `  rackscape profile export reference racks.toml
  rackscape profile export racks.toml racks.json`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeFirstProfile,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := profile.Resolve(args[0])
			if err != nil {
				return err
			}
			if err := profile.Export(p, args[1]); err != nil {
				return err
			}
			out := newPrinter(cmd.OutOrStdout())
			out.success("Exported %s", styleAccent.Render(p.Name()))
			out.file(args[1])
			return nil
		},
	}
}

func (c *CLI) profileRandomCommand() *cobra.Command {
	var (
		name   string
		output string
		seed   uint64
		opts   profile.RandomOptions
	)

	cmd := &cobra.Command{
		Use:   "random",
		Short: "Generate a random valid profile",
		Long: `Generate a profile by stacking devices of random standard sizes from the
bottom of the cabinet up. The result is written as TOML to stdout, or to
--output in the format implied by its extension.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rng := rand.New(rand.NewPCG(seed, seed))
			p, err := profile.Random(name, rng, opts)
			if err != nil {
				return err
			}
			if output == "" {
				return profile.Write(cmd.OutOrStdout(), p, profile.FormatTOML)
			}
			if err := profile.Export(p, output); err != nil {
				return err
			}
			out := newPrinter(cmd.OutOrStdout())
			out.success("Generated %s %s", styleAccent.Render(p.Name()), styleMuted.Render(fmt.Sprintf("(%d devices)", p.Len())))
			out.file(output)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "random", "profile name")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.toml or .json)")
	cmd.Flags().Uint64Var(&seed, "seed", 42, "random seed")
	cmd.Flags().IntVar(&opts.Units, "units", 0, "units to fill per side (default: whole cabinet)")
	cmd.Flags().Float64Var(&opts.Gap, "gap", 0.2, "probability of an empty unit before each device")
	cmd.Flags().BoolVar(&opts.Back, "back", false, "also populate the back rails")

	return cmd
}

// renderProfile writes a device table and a per-side occupancy summary.
func renderProfile(w io.Writer, p *rack.Profile) {
	cell := lipgloss.NewStyle().Padding(0, 1)
	devices := p.Descriptors()

	rows := make([][]string, 0, len(devices))
	for _, d := range devices {
		lo, hi := d.Slots()
		rows = append(rows, []string{
			d.Label(),
			rack.SizeKey(d.HeightUnits),
			fmt.Sprintf("%d-%d", lo, hi),
			d.MountSide.String(),
			strconv.FormatFloat(d.DepthScale, 'f', -1, 64),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleMuted).
		Headers("Device", "Size", "Units", "Side", "Depth").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return cell.Foreground(colorLabel).Bold(true)
			case col == 0:
				return cell.Foreground(colorText)
			case col == 3:
				return sideStyle(devices[row].MountSide).Padding(0, 1)
			}
			return cell.Foreground(colorLabel)
		})

	fmt.Fprintln(w, styleTitle.Render(p.Name()))
	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, styleMuted.Render(fmt.Sprintf("front %d/%dU · back %d/%dU",
		p.Units(rack.Front), rack.RackUnits, p.Units(rack.Back), rack.RackUnits)))
}
