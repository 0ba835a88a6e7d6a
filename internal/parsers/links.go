// Package parsers reads and writes the small text files kept inside course directories.
package parsers

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

const DefaultLinkLabel = "Default"

// Link is one entry of a course's link list.
type Link struct {
	URL   string
	Label string
}

// accepted forms:
//
//	http://example.com Label of the site
//	http://example.com
var linkLineRegex = regexp.MustCompile(`^\s*(\S+)(?:\s+(.*\S))?\s*$`)

// ParseLinks reads one link per line in the form "<url>[ <label>]".
// Blank lines are skipped silently, lines that do not yield a URL are logged and skipped.
func ParseLinks(content string, log zerolog.Logger) []Link {
	var links []Link
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		matches := linkLineRegex.FindStringSubmatch(line)
		if matches == nil { //blank
			continue
		}
		address := matches[1]
		if _, err := url.Parse(address); err != nil {
			log.Warn().Str("line", strings.TrimSpace(line)).Err(err).Msg("invalid non-empty line in course links")
			continue
		}
		label := matches[2]
		if label == "" {
			label = DefaultLinkLabel
		}
		links = append(links, Link{URL: address, Label: label})
	}
	log.Debug().Int("count", len(links)).Msg("parsed course links")
	return links
}

// FormatLinks is the inverse of ParseLinks.
func FormatLinks(links []Link) string {
	var b strings.Builder
	for _, link := range links {
		b.WriteString(link.URL)
		if link.Label != "" && link.Label != DefaultLinkLabel {
			b.WriteString(" ")
			b.WriteString(link.Label)
		}
		b.WriteString("\n")
	}
	return b.String()
}
