package ui

import (
	"fmt"
	"io"

	"github.com/arthur-debert/envboot/pkg/bootstrap"
	"github.com/pterm/pterm"
)

// Progress prints bootstrap steps as they happen. It implements
// bootstrap.Observer.
type Progress struct {
	w      io.Writer
	styled bool
}

// NewProgress creates a Progress writing to w. Styling follows format.
func NewProgress(w io.Writer, format Format) *Progress {
	return &Progress{w: w, styled: format.Resolve(w) == FormatTerminal}
}

func (p *Progress) StepStarted(e bootstrap.Event) {
	switch e.Step {
	case bootstrap.StepCreate:
		p.print(pterm.Info, "Creating environment at %s", e.Subject)
	case bootstrap.StepInstall:
		p.print(pterm.Info, "Installing %s", e.Subject)
	case bootstrap.StepInvoke:
		p.print(pterm.Info, "Running %s", e.Subject)
	}
}

func (p *Progress) StepFinished(e bootstrap.Event, err error) {
	if err != nil {
		p.print(pterm.Error, "%s failed: %v", e.Step, err)
		return
	}
	switch e.Step {
	case bootstrap.StepCreate:
		p.print(pterm.Success, "Environment created")
	case bootstrap.StepInstall:
		p.print(pterm.Success, "Installed %s", e.Subject)
	}
}

func (p *Progress) print(printer pterm.PrefixPrinter, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if !p.styled {
		_, _ = fmt.Fprintf(p.w, "%s: %s\n", printer.Prefix.Text, msg)
		return
	}
	_, _ = fmt.Fprintf(p.w, "%s %s\n",
		printer.Prefix.Style.Sprint(" "+printer.Prefix.Text+" "),
		printer.MessageStyle.Sprint(msg))
}
