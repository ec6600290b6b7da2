// Package token defines the units produced by the region classifier.
// Invariants:
//   - Token.Text is an exact copy of the source bytes covered by Token.Span.
//   - Concatenating Text over the token stream reproduces the input.
//   - Only LiteralRef tokens carry Content; only interned ones carry Label.
package token
