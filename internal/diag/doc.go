// Package diag defines the diagnostic model shared by the scanner, the
// interner and the driver.
//
// Diagnostic is the central record: Severity (Info, Warning, Error), a compact
// numeric Code with a stable string ID (LEX1001, SYM2001, ...), a short
// Message, the Primary span and optional Notes pointing at related spans.
//
// Producers emit through a Reporter; BagReporter collects into a Bag, which
// supports limits, sorting and deduplication. Rendering lives in
// internal/diagfmt. A unit whose Bag HasErrors produces no output.
package diag
