// Package emit assembles the transformed unit: symbol definitions first,
// then the classified tokens with interned literals replaced by labels.
package emit
