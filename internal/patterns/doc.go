// Package patterns holds the compiled matchers used by the entity extractors.
//
// The registry is a frozen table built once on first use. Each entry pairs a
// compiled Pattern with an optional NameResolver that turns a matched glyph
// into its Unicode character name:
//
//	p, names, err := patterns.Lookup(patterns.Currency)
//	if err != nil {
//	    return err
//	}
//	glyphs, _ := p.FindAll("price: $5 or €4")
//	names(glyphs[0]) // "dollar sign"
//
// # Character Classes
//
// The quote, exclamation, full stop, question mark and currency classes are
// versioned data generated from the Unicode character database (see
// UnicodeVersion). They are compiled into the binary and never regenerated
// at runtime.
//
// # Raw Expressions
//
// Expressions built at runtime (word lists, context windows) go through
// Cached, which compiles each distinct expression once and keeps it in a
// bounded LRU cache.
//
// # Regex Dialect
//
// Matching uses github.com/dlclark/regexp2 so that lookbehind and
// backreferences are available. \w, \d and \s are Unicode-aware. Zero-width
// matches advance the scan position, so FindAll always terminates, and every
// pattern carries DefaultMatchTimeout against runaway backtracking.
package patterns
