package commands

import (
	"context"
	"os/signal"
	"syscall"
)

// RenderCmd renders one document to HTML on stdout (or a file).
type RenderCmd struct {
	Doc    string `arg:"" help:"Document to render (vault-relative path or basename)."`
	Output string `short:"o" help:"Write HTML to this file instead of stdout."`

	RenderAll bool `name:"render-all" help:"Resolve implicit embeds too, not only !![[...]] markers."`
	Shift     bool `name:"shift-headings" help:"Re-level embedded headings under the enclosing heading."`
}

func (r *RenderCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if r.RenderAll {
		cfg.Settings.RenderAllTransclusions = true
	}
	if r.Shift {
		cfg.Settings.ShiftHeadings = true
	}

	p, _, cleanup, err := buildPipeline(cfg, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	html, err := p.RenderHTML(ctx, r.Doc)
	if err != nil {
		return err
	}
	return writeOutput(r.Output, html)
}
