package extract

import (
	"context"
	"net/url"
	"strings"

	"github.com/fyrsmithlabs/entitystats/internal/patterns"
	"github.com/fyrsmithlabs/entitystats/internal/summary"
)

// URLs extracts URLs. Matches starting with "www." or "ftp." get an
// "http://" scheme. Each URL is split into its host name and top-level
// domain, which are ranked like the URLs themselves.
func (e *Engine) URLs(ctx context.Context, corpus []string) (*summary.Summary, error) {
	p, _, err := lookup(patterns.URL)
	if err != nil {
		return nil, err
	}
	found, err := e.Extract(ctx, corpus, p, LabelURL)
	if err != nil {
		return nil, err
	}

	normalized := make([][]string, len(found.Matches))
	domains := make([][]string, len(found.Matches))
	tlds := make([][]string, len(found.Matches))
	var flatDomains, flatTLDs []string

	for i, doc := range found.Matches {
		normalized[i] = make([]string, len(doc))
		domains[i] = make([]string, len(doc))
		tlds[i] = make([]string, len(doc))
		for j, m := range doc {
			u := NormalizeURL(m)
			host := Hostname(u)
			tld := TLD(host)

			normalized[i][j] = u
			domains[i][j] = host
			tlds[i][j] = tld
			if host != "" {
				flatDomains = append(flatDomains, host)
				flatTLDs = append(flatTLDs, tld)
			}
		}
	}

	s, err := e.Summarize(corpus, normalized, LabelURL)
	if err != nil {
		return nil, err
	}
	s.SetExtra(FieldDomains, domains)
	s.SetExtra(FieldTLDs, tlds)
	s.SetExtra(FieldTopDomains, summary.Rank(flatDomains))
	s.SetExtra(FieldTopTLDs, summary.Rank(flatTLDs))
	return s, nil
}

// NormalizeURL prefixes "http://" to URLs that start with "www." or "ftp.".
func NormalizeURL(raw string) string {
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "www.") || strings.HasPrefix(lower, "ftp.") {
		return "http://" + raw
	}
	return raw
}

// Hostname returns the host of rawURL without port, or "" when it cannot
// be parsed.
func Hostname(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// TLD returns the last dot-separated label of host.
func TLD(host string) string {
	if i := strings.LastIndexByte(host, '.'); i >= 0 {
		return host[i+1:]
	}
	return host
}
