// Package summary aggregates per-document entity matches into corpus-wide
// statistics.
//
// A Summary keeps the matches aligned with the corpus, the flattened match
// list, per-document counts, the frequency distribution of those counts, the
// ranked top values and an overview of ratios. Entity specific fields are
// attached as extras and rendered after the base fields.
//
// Ranking is deterministic: values are tallied in first-seen order and then
// stably sorted by count, so equal counts keep the order in which the values
// first appeared.
package summary
