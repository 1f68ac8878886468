// Package corpus reads documents for extraction from files or readers.
//
// Supported formats:
//
//	lines  one document per line; empty lines are documents too
//	json   a JSON array of strings, or the strings selected by a gjson path
//	jsonl  one JSON value per line; Field selects the text with a gjson path
//	csv    one column of a CSV file with a header row
package corpus
