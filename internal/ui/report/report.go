// Package report renders audit reports as terminal text or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/lockguard/internal/core/domain"
	"go.trai.ch/lockguard/internal/ui/output"
	"go.trai.ch/lockguard/internal/ui/style"
)

// projectHeading groups findings that do not belong to an audited lockfile.
const projectHeading = "project"

// Renderer writes reports to one writer.
type Renderer struct {
	w io.Writer

	heading lipgloss.Style
	subtle  lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	caution lipgloss.Style
}

// Option configures a Renderer.
type Option func(*lipgloss.Renderer)

// WithProfile forces a color profile instead of detecting one.
func WithProfile(p termenv.Profile) Option {
	return func(r *lipgloss.Renderer) {
		r.SetColorProfile(p)
	}
}

// NewRenderer creates a Renderer on w. Colors follow the terminal and NO_COLOR.
func NewRenderer(w io.Writer, opts ...Option) *Renderer {
	lip := lipgloss.NewRenderer(w, termenv.WithProfile(output.ColorProfile()))
	for _, opt := range opts {
		opt(lip)
	}
	return &Renderer{
		w:       w,
		heading: style.Heading.Renderer(lip),
		subtle:  style.Subtle.Renderer(lip),
		success: style.Success.Renderer(lip),
		failure: style.Failure.Renderer(lip),
		caution: style.Caution.Renderer(lip),
	}
}

// Text writes the human-readable report: one section per lockfile, the
// findings that belong to no lockfile, then a summary line.
func (r *Renderer) Text(rep *domain.Report) error {
	var b strings.Builder

	claimed := make(map[string]bool, len(rep.Lockfiles))
	for _, lf := range rep.Lockfiles {
		claimed[lf.File] = true
		b.WriteString(r.heading.Render(lf.File) + " " + r.subtle.Render(describe(lf)) + "\n")
		r.writeFindings(&b, rep.Findings, func(f domain.Finding) bool { return f.File == lf.File }, true)
		b.WriteString("\n")
	}

	orphan := func(f domain.Finding) bool { return !claimed[f.File] }
	if hasAny(rep.Findings, orphan) {
		b.WriteString(r.heading.Render(projectHeading) + "\n")
		r.writeFindings(&b, rep.Findings, orphan, false)
		b.WriteString("\n")
	}

	s := rep.Summary()
	counts := fmt.Sprintf("%s, %s", plural(s.Errors, "error"), plural(s.Warnings, "warning"))
	if rep.Failed() {
		b.WriteString(r.failure.Render(style.Cross+" audit failed: "+counts) + "\n")
	} else {
		b.WriteString(r.success.Render(style.Check+" audit passed: "+counts) + "\n")
	}
	b.WriteString(r.subtle.Render(fmt.Sprintf("  %s, %d verified, %d skipped",
		plural(s.Entries, "entry"), s.Verified, s.Skipped)) + "\n")

	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *Renderer) writeFindings(b *strings.Builder, findings []domain.Finding, keep func(domain.Finding) bool, clean bool) {
	found := false
	for _, f := range findings {
		if !keep(f) {
			continue
		}
		found = true

		icon := r.failure.Render(style.Cross)
		if f.Severity != domain.SeverityError {
			icon = r.caution.Render(style.Warning)
		}
		line := "  " + icon + " " + string(f.Check)
		if loc := f.Location(); loc != "" {
			line += "  " + r.subtle.Render(loc)
		}
		if f.Package != "" {
			line += "  " + f.Package
		}
		b.WriteString(line + "\n")
		b.WriteString("      " + f.Message + "\n")
	}
	if !found && clean {
		b.WriteString("  " + r.success.Render(style.Check) + " no findings\n")
	}
}

func hasAny(findings []domain.Finding, keep func(domain.Finding) bool) bool {
	for _, f := range findings {
		if keep(f) {
			return true
		}
	}
	return false
}

func describe(lf domain.LockfileReport) string {
	kind := lf.Format
	switch {
	case lf.Virtual:
		kind = "virtual"
	case lf.Version != "":
		kind += " v" + lf.Version
	}
	return "(" + kind + ", " + plural(lf.Entries, "entry") + ")"
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	if strings.HasSuffix(noun, "y") {
		return fmt.Sprintf("%d %sies", n, strings.TrimSuffix(noun, "y"))
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

type jsonReport struct {
	*domain.Report
	Summary domain.Summary `json:"summary"`
	Passed  bool           `json:"passed"`
}

// JSON writes the report with its summary as indented JSON.
func (r *Renderer) JSON(rep *domain.Report) error {
	return r.encode(jsonReport{Report: rep, Summary: rep.Summary(), Passed: !rep.Failed()})
}

// Entries writes the canonical entry list of one lockfile.
func (r *Renderer) Entries(file string, entries []domain.LockEntry) error {
	var b strings.Builder
	b.WriteString(r.heading.Render(file) + " " + r.subtle.Render("("+plural(len(entries), "entry")+")") + "\n")
	for _, e := range entries {
		marker := " "
		if e.IsDirect {
			marker = r.caution.Render(style.Dot)
		}
		line := fmt.Sprintf("  %s %s", marker, e.ID())
		if e.Line > 0 {
			line += r.subtle.Render(fmt.Sprintf(" :%d", e.Line))
		}
		b.WriteString(line + "\n")
		if e.HasResolved() {
			b.WriteString("      " + r.subtle.Render(style.Arrow+" "+e.Resolved) + "\n")
		}
		if e.HasIntegrity() {
			b.WriteString("      " + r.subtle.Render(e.Integrity) + "\n")
		}
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}

// EntriesJSON writes the entry list as a JSON array.
func (r *Renderer) EntriesJSON(entries []domain.LockEntry) error {
	if entries == nil {
		entries = []domain.LockEntry{}
	}
	return r.encode(entries)
}

// Registry is one canonicalized registry line.
type Registry struct {
	Input     string             `json:"input"`
	Canonical domain.RegistryURL `json:"canonical,omitzero"`
	Valid     bool               `json:"valid"`
}

// Registries writes canonicalized registries, one per line.
func (r *Renderer) Registries(regs []Registry) error {
	var b strings.Builder
	for _, reg := range regs {
		if !reg.Valid {
			b.WriteString(r.failure.Render(style.Cross) + " " + reg.Input + " " + r.subtle.Render("(not a registry URL)") + "\n")
			continue
		}
		b.WriteString(reg.Input + " " + r.subtle.Render(style.Arrow) + " " + string(reg.Canonical) + "\n")
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}

// RegistriesJSON writes canonicalized registries as a JSON array.
func (r *Renderer) RegistriesJSON(regs []Registry) error {
	if regs == nil {
		regs = []Registry{}
	}
	return r.encode(regs)
}

func (r *Renderer) encode(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
