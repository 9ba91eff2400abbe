package assets

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// Kind says how an asset reached the output directory.
type Kind int

const (
	KindCopied Kind = iota
	KindHashed
	KindFont
	KindScoped
)

func (k Kind) String() string {
	switch k {
	case KindCopied:
		return "copied"
	case KindFont:
		return "font"
	case KindScoped:
		return "scoped"
	}
	return "hashed"
}

// Emitted describes one written asset.
type Emitted struct {
	Source string
	Output string
	Kind   Kind
}

// Reporter follows a build. Done is called only when the build succeeds.
type Reporter interface {
	Begin(total int)
	Emitted(e Emitted)
	Done(m *Manifest)
}

// NewReporter draws a progress bar on an interactive stderr and falls back
// to one line per asset in CI or when stderr is redirected.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || !term.IsTerminal(int(os.Stderr.Fd())) {
		return &LineReporter{W: os.Stderr}
	}
	return &BarReporter{}
}

// BarReporter shows the asset being written on a progress bar.
type BarReporter struct {
	bar *progressbar.ProgressBar
}

func (r *BarReporter) Begin(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("assets"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *BarReporter) Emitted(e Emitted) {
	if r.bar == nil {
		return
	}
	r.bar.Describe(e.Source)
	_ = r.bar.Add(1)
}

func (r *BarReporter) Done(m *Manifest) {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
	fmt.Fprintln(os.Stderr, summary(m))
}

// LineReporter writes "[n/total] source -> output (kind)" per asset.
type LineReporter struct {
	W io.Writer

	total, n int
}

func (r *LineReporter) Begin(total int) {
	r.total, r.n = total, 0
}

func (r *LineReporter) Emitted(e Emitted) {
	r.n++
	if e.Kind == KindCopied {
		fmt.Fprintf(r.W, "[%d/%d] %s (copied)\n", r.n, r.total, e.Source)
		return
	}
	fmt.Fprintf(r.W, "[%d/%d] %s -> %s (%s)\n", r.n, r.total, e.Source, e.Output, e.Kind)
}

func (r *LineReporter) Done(m *Manifest) {
	fmt.Fprintln(r.W, summary(m))
}

func summary(m *Manifest) string {
	return fmt.Sprintf("assets %s: %d copied, %d fingerprinted, %d scoped stylesheets, %d fonts",
		m.Version, len(m.Copied), len(m.Files), len(m.Classes), len(m.Preload))
}

type nopReporter struct{}

func (nopReporter) Begin(int)       {}
func (nopReporter) Emitted(Emitted) {}
func (nopReporter) Done(*Manifest)  {}
