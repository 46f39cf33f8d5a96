// Package markers implements the Marker Extractor: a pure stream
// transformer that scans agent text output for XML-like tagged
// regions and splits it into typed marker events and cleaned text events,
// preserving positional order.
package markers

import (
	"regexp"
	"sort"
	"strings"

	"github.com/cuggino/cuggino/internal/events"
)

// Config maps the set of uppercase tag names this extraction pass
// recognizes. Tags not listed here are left untouched in the surrounding
// text; recognized tags all route through the single events.NewMarker
// constructor shared across all tags.
type Config struct {
	Tags []events.MarkerTag
}

type tagPattern struct {
	tag MarkerTag
	re  *regexp.Regexp
}

// MarkerTag is re-exported for callers that only need markers.Config.
type MarkerTag = events.MarkerTag

func (c Config) patterns() []tagPattern {
	pats := make([]tagPattern, 0, len(c.Tags))
	for _, tag := range c.Tags {
		// (?s) lets the body span newlines; the body is non-greedy so a
		// later close tag of the same name doesn't swallow intervening
		// markers of other tags.
		re := regexp.MustCompile(`(?s)<` + regexp.QuoteMeta(string(tag)) + `>(.*?)</` + regexp.QuoteMeta(string(tag)) + `>`)
		pats = append(pats, tagPattern{tag: tag, re: re})
	}
	return pats
}

type match struct {
	start, end int
	tag        events.MarkerTag
	body       string
}

// findMatches returns every non-overlapping match of the configured tags
// in text, sorted by start offset. When two matches overlap, the one that
// starts earlier wins and the later one is dropped.
func findMatches(text string, pats []tagPattern) []match {
	var all []match
	for _, p := range pats {
		for _, idx := range p.re.FindAllStringSubmatchIndex(text, -1) {
			all = append(all, match{
				start: idx[0],
				end:   idx[1],
				tag:   p.tag,
				body:  text[idx[2]:idx[3]],
			})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].start < all[j].start })

	var resolved []match
	lastEnd := -1
	for _, m := range all {
		if m.start < lastEnd {
			continue // overlaps the previous, earlier-starting match; drop
		}
		resolved = append(resolved, m)
		lastEnd = m.end
	}
	return resolved
}

// Extract runs the extraction config against a single AgentMessage's
// text, returning the ordered list of events.Event that should replace
// it: a left-to-right interleaving of cleaned-text AgentMessage events
// and the marker events they surrounded.
func Extract(text string, cfg Config) []events.Event {
	pats := cfg.patterns()
	matches := findMatches(text, pats)
	if len(matches) == 0 {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []events.Event{events.AgentMessage{Text: trimmed}}
	}

	out := make([]events.Event, 0, len(matches)*2+1)
	pos := 0
	for _, m := range matches {
		segment := strings.TrimSpace(text[pos:m.start])
		if segment != "" {
			out = append(out, events.AgentMessage{Text: segment})
		}
		out = append(out, events.NewMarker(m.tag, strings.TrimSpace(m.body)))
		pos = m.end
	}
	trailing := strings.TrimSpace(text[pos:])
	if trailing != "" {
		out = append(out, events.AgentMessage{Text: trailing})
	}
	return out
}

// Stream consumes in and produces the marker-extracted event stream:
// non-AgentMessage events pass through unchanged, each AgentMessage is
// split via Extract. Stream closes its output channel when in closes or
// ctx-like cancellation is signaled via closing done; it never blocks
// waiting for cross-event context.
func Stream(in <-chan events.Event, cfg Config, done <-chan struct{}) <-chan events.Event {
	out := make(chan events.Event)
	go func() {
		defer close(out)
		for {
			select {
			case <-done:
				return
			case e, ok := <-in:
				if !ok {
					return
				}
				am, isText := e.(events.AgentMessage)
				if !isText {
					select {
					case out <- e:
					case <-done:
						return
					}
					continue
				}
				for _, split := range Extract(am.Text, cfg) {
					select {
					case out <- split:
					case <-done:
						return
					}
				}
			}
		}
	}()
	return out
}
