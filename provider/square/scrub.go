package square

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	filtered       = "[FILTERED]"
	maxScrubPasses = 4
)

var (
	// card_nonce value, in raw JSON or in a JSON string escaped inside a log line
	nonceRe = regexp.MustCompile(`(\\?"card_nonce\\?":\s?\\?")[^"\\\s]+`)
	// location ids in URL paths
	locationRe = regexp.MustCompile(`(/locations/)[A-Za-z0-9]+`)
)

// scrubber redacts a transcript. The bearer pattern depends on the access token length.
type scrubber struct {
	bearerRe *regexp.Regexp
}

func newScrubber(accessToken string) scrubber {
	s := scrubber{}
	if n := len(accessToken); n > 0 {
		s.bearerRe = regexp.MustCompile(fmt.Sprintf(`(Authorization: Bearer )\S{%d}`, n))
	}
	return s
}

// scrub applies every pattern until the text stops changing. One replacement
// can lengthen a run of non-space characters and expose another match.
func (s scrubber) scrub(transcript string) string {
	out := transcript
	for i := 0; i < maxScrubPasses; i++ {
		next := s.pass(out)
		if next == out {
			break
		}
		out = next
	}
	return out
}

func (s scrubber) pass(text string) string {
	out := replaceUnfiltered(nonceRe, text)
	if s.bearerRe != nil {
		out = replaceUnfiltered(s.bearerRe, out)
	}
	return replaceUnfiltered(locationRe, out)
}

// replaceUnfiltered keeps group 1 of each match and replaces the rest with the
// marker. Matches whose value already starts with the marker are left alone,
// so scrubbing scrubbed text is a no-op.
func replaceUnfiltered(re *regexp.Regexp, s string) string {
	matches := re.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, m := range matches {
		end, prefixEnd := m[1], m[3]
		if strings.HasPrefix(s[prefixEnd:], filtered) {
			continue
		}
		b.WriteString(s[last:prefixEnd])
		b.WriteString(filtered)
		last = end
	}
	b.WriteString(s[last:])

	return b.String()
}
