package commands

import (
	"context"
	"os/signal"
	"syscall"
)

// ExpandCmd flattens one document to markdown with transclusions inlined.
type ExpandCmd struct {
	Doc    string `arg:"" help:"Document to expand (vault-relative path or basename)."`
	Output string `short:"o" help:"Write markdown to this file instead of stdout."`

	RenderAll bool `name:"render-all" help:"Expand implicit embeds too, not only !![[...]] markers."`
	Shift     bool `name:"shift-headings" help:"Re-level embedded headings under the enclosing heading."`
}

func (e *ExpandCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if e.RenderAll {
		cfg.Settings.RenderAllTransclusions = true
	}
	if e.Shift {
		cfg.Settings.ShiftHeadings = true
	}

	p, _, cleanup, err := buildPipeline(cfg, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	md, err := p.Expand(ctx, e.Doc)
	if err != nil {
		return err
	}
	return writeOutput(e.Output, md)
}
