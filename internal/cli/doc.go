// Package cli implements the peerlens command line: offline summaries of
// review files, lexicon checks and pseudonym derivation.
package cli
