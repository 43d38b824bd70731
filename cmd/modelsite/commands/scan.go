package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"git.home.luguber.info/inful/modelsite/internal/catalog"
)

// ScanCmd implements the 'scan' command.
type ScanCmd struct {
	Models string `help:"Models directory (overrides config)"`
}

func (s *ScanCmd) Run(g *Global, root *CLI) error {
	cfg, err := LoadConfig(root.Config, Overrides{Models: s.Models})
	if err != nil {
		return err
	}
	return RunScan(cfg.Models, g.out())
}

// RunScan lists every model under modelsDir with its screenshot, in scan order.
func RunScan(modelsDir string, out io.Writer) error {
	cat, err := catalog.NewScanner().Scan(modelsDir)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tPATH\tSCREENSHOT")
	withShot := 0
	for _, m := range cat.Models {
		shot := "-"
		if m.HasScreenshot() {
			shot = "yes"
			withShot++
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Name(), m.RelPath(), shot)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "%d models, %d with screenshot, %d folders\n", len(cat.Models), withShot, len(cat.Folders))
	return nil
}
