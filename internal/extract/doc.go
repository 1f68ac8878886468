// Package extract finds entities in a corpus of short documents and
// summarizes them.
//
// The Engine applies a pattern to every document, lower-cased with full
// Unicode case mapping, and hands the aligned per-document matches to
// summary.Aggregate. The per-document scan runs concurrently; aggregation
// starts only after every document has been scanned, and any error or
// cancellation aborts the whole call.
//
// The entity extractors build on the engine:
//
//	Hashtags, Mentions    token entities
//	Currency              glyphs with names and surrounding text
//	Numbers               digit runs joined by separators
//	Questions             question marks with names and question clauses
//	Exclamations          exclamation marks with names and exclamation clauses
//	IntenseWords          tokens with a character repeated several times
//	URLs                  URLs with domains and top-level domains
//	Words                 target words, whole or inside longer tokens
//
// Nothing in this package logs; callers wrap it with logging and metrics.
package extract
