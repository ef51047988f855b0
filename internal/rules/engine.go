package rules

import (
	"sort"
	"strconv"
	"strings"

	"github.com/1homsi/depscope/internal/model"
)

// lineIndex supports binary-search offset -> (line, column) lookup, the
// same structure spec §4.4 calls "a precomputed line-start index".
type lineIndex struct {
	starts []int // byte offset of the start of each line (1-based line i -> starts[i-1])
}

func newLineIndex(text string) *lineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts}
}

func (li *lineIndex) lineCol(offset int) (line, col int) {
	lo, hi := 0, len(li.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if li.starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1, offset - li.starts[lo] + 1
}

func (li *lineIndex) lineText(text string, line int) string {
	start := 0
	if line-1 < len(li.starts) {
		start = li.starts[line-1]
	}
	end := len(text)
	if line < len(li.starts) {
		end = li.starts[line] - 1
		if end < start {
			end = start
		}
	}
	return text[start:end]
}

func (li *lineIndex) windowText(text string, centerLine, lines int) string {
	lo := centerLine - lines
	if lo < 1 {
		lo = 1
	}
	hi := centerLine + lines
	if hi > len(li.starts) {
		hi = len(li.starts)
	}
	start := li.starts[lo-1]
	end := len(text)
	if hi < len(li.starts) {
		end = li.starts[hi] - 1
	}
	if end < start {
		end = start
	}
	return text[start:end]
}

type match struct {
	rule       *Rule
	ruleOrder  int
	startOff   int
	endOff     int
	file       string
	text       string // the text the match was found in, for line lookups
}

// Evaluate runs every rule in the catalog against the raw/sanitized text of
// one file and returns its findings, deduplicated by (ruleId, startOffset,
// endOffset) and ordered by rule declaration order then match offset.
func (c *Catalog) Evaluate(file, raw, sanitized string) []model.Finding {
	rawIdx := newLineIndex(raw)
	sanIdx := newLineIndex(sanitized)

	var matches []match
	seen := make(map[string]bool)

	for i := range c.Rules {
		r := &c.Rules[i]
		text := sanitized
		idx := sanIdx
		if r.Kind == KindRaw {
			text = raw
			idx = rawIdx
		}

		locs := r.re.FindAllStringIndex(text, -1)
		for _, loc := range locs {
			if r.Kind == KindHeuristic {
				if !heuristicFires(r, text, idx, loc[0]) {
					continue
				}
			}
			key := r.ID + "\x00" + strconv.Itoa(loc[0]) + "\x00" + strconv.Itoa(loc[1])
			if seen[key] {
				continue
			}
			seen[key] = true
			matches = append(matches, match{rule: r, ruleOrder: i, startOff: loc[0], endOff: loc[1], file: file, text: text})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].ruleOrder != matches[j].ruleOrder {
			return matches[i].ruleOrder < matches[j].ruleOrder
		}
		return matches[i].startOff < matches[j].startOff
	})

	findings := make([]model.Finding, 0, len(matches))
	for _, m := range matches {
		idx := sanIdx
		if m.rule.Kind == KindRaw {
			idx = rawIdx
		}
		line, col := idx.lineCol(m.startOff)
		snippet := strings.TrimSpace(idx.lineText(m.text, line))
		findings = append(findings, model.Finding{
			RuleID:   m.rule.ID,
			Severity: m.rule.Severity,
			Message:  m.rule.Message,
			File:     m.file,
			Line:     line,
			Column:   col,
			Snippet:  snippet,
		})
	}
	return findings
}

func heuristicFires(r *Rule, text string, idx *lineIndex, offset int) bool {
	if r.contextRe == nil {
		return true
	}
	line, _ := idx.lineCol(offset)
	window := idx.windowText(text, line, r.ContextLines)
	found := r.contextRe.MatchString(window)
	if r.NegativeContext {
		return !found
	}
	return found
}
