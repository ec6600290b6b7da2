package symtab

import (
	"fmt"

	"strsym/internal/diag"
	"strsym/internal/source"
)

const (
	DefaultMinLength = 4
	DefaultPrefix    = "STRSYM_"
)

type Options struct {
	MinLength   int
	Prefix      string
	Collision   Collision
	Order       Order
	FoldUnicode bool
	Reporter    diag.Reporter
}

// DefaultOptions returns the stock threshold and prefix with the suffix policy.
func DefaultOptions() Options {
	return Options{
		MinLength: DefaultMinLength,
		Prefix:    DefaultPrefix,
		Collision: CollisionSuffix,
		Order:     OrderInsertion,
	}
}

// Interner decides which literals become symbols and records them in a Table.
// It is owned by one run and is not safe for concurrent use.
type Interner struct {
	opts  Options
	table *Table
	// byContent remembers the label handed out for each content, so that
	// repeated content always resolves to the same label under every policy.
	byContent map[string]string
}

func NewInterner(opts Options) *Interner {
	if opts.MinLength < 0 {
		opts.MinLength = 0
	}
	return &Interner{
		opts:      opts,
		table:     NewTable(opts.Order),
		byContent: make(map[string]string),
	}
}

// Table returns the table built so far.
func (in *Interner) Table() *Table {
	return in.table
}

// Intern returns the label for content, or "" when content is shorter than
// the threshold or cannot be given a label.
func (in *Interner) Intern(content string, sp source.Span) string {
	if ContentLength(content) < in.opts.MinLength {
		return ""
	}
	if label, ok := in.byContent[content]; ok {
		in.table.use(label)
		return label
	}

	label := DeriveLabel(in.opts.Prefix, content, in.opts.FoldUnicode)
	prev, taken := in.table.entry(label)
	if !taken {
		in.checkIdentifier(label, sp)
		if label == "" {
			return ""
		}
		in.table.insert(label, content, sp)
		in.byContent[content] = label
		return label
	}

	switch in.opts.Collision {
	case CollisionOverwrite:
		in.report(diag.SevWarning, sp,
			fmt.Sprintf("label %s redefined: %q replaces %q", label, content, prev.Content),
			diag.Note{Span: prev.First, Msg: "first defined here"})
		delete(in.byContent, prev.Content)
		in.table.replace(label, content)
		in.byContent[content] = label
		return label

	case CollisionError:
		in.report(diag.SevError, sp,
			fmt.Sprintf("label %s already stands for %q", label, prev.Content),
			diag.Note{Span: prev.First, Msg: "first defined here"})
		return ""

	default:
		suffixed := in.freeSuffix(label)
		in.report(diag.SevInfo, sp,
			fmt.Sprintf("label %s already stands for %q; using %s", label, prev.Content, suffixed),
			diag.Note{Span: prev.First, Msg: "first defined here"})
		in.table.insert(suffixed, content, sp)
		in.byContent[content] = suffixed
		return suffixed
	}
}

func (in *Interner) freeSuffix(label string) string {
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d", label, n)
		if !in.table.Has(candidate) {
			return candidate
		}
	}
}

func (in *Interner) checkIdentifier(label string, sp source.Span) {
	if IsIdentifier(label) {
		return
	}
	if in.opts.Reporter == nil {
		return
	}
	in.opts.Reporter.Report(diag.SymInvalidIdentifier, diag.SevWarning, sp,
		fmt.Sprintf("label %q is not a valid C identifier", label), nil)
}

func (in *Interner) report(sev diag.Severity, sp source.Span, msg string, notes ...diag.Note) {
	if in.opts.Reporter == nil {
		return
	}
	in.opts.Reporter.Report(diag.SymLabelCollision, sev, sp, msg, notes)
}
