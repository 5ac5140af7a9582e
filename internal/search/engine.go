// Package search ranks document records against a typed query.
package search

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
	"github.com/xrash/smetrics"

	"github.com/gravitrone/cocoon/internal/record"
)

// DefaultKeys are the field keys searched in addition to the record type.
var DefaultKeys = []string{
	"number",
	"expires",
	"issued",
	"state",
	"country",
	"provider",
	"policyNumber",
	"groupNumber",
}

// Score tiers. Lower is better.
const (
	scoreExact     = 0.0
	scoreWord      = 0.05
	scorePrefix    = 0.1
	scoreSubstring = 0.2
	scoreFuzzy     = 0.3
	scoreTypo      = 0.5
	scoreNoMatch   = 1.0

	defaultTypoThreshold = 0.85
	minTypoTokenLen      = 3
)

// Result is a ranked record.
type Result struct {
	Item  record.Record
	Score float64
}

// Engine scores records against queries. It holds no per-query state.
type Engine struct {
	keys          []string
	typoThreshold float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithKeys adds field keys to the searched set.
func WithKeys(keys ...string) Option {
	return func(e *Engine) {
		for _, k := range keys {
			if k == "" || containsString(e.keys, k) {
				continue
			}
			e.keys = append(e.keys, k)
		}
	}
}

// WithTypoThreshold sets the minimum Jaro-Winkler similarity accepted as a typo.
func WithTypoThreshold(threshold float64) Option {
	return func(e *Engine) {
		if threshold > 0 && threshold <= 1 {
			e.typoThreshold = threshold
		}
	}
}

// NewEngine creates an engine searching type plus DefaultKeys.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		keys:          append([]string(nil), DefaultKeys...),
		typoThreshold: defaultTypoThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Keys returns the searched field keys.
func (e *Engine) Keys() []string {
	return append([]string(nil), e.keys...)
}

// Search parses raw and ranks records against it.
func (e *Engine) Search(records []record.Record, raw string) []Result {
	return e.SearchQuery(records, ParseQuery(raw))
}

// SearchQuery ranks records against an already parsed query.
func (e *Engine) SearchQuery(records []record.Record, q Query) []Result {
	if len(records) == 0 || strings.TrimSpace(q.Raw) == "" {
		return nil
	}

	candidates := records
	if q.Scoped() {
		candidates = filterOwner(records, q.OwnerScope)
		if len(candidates) == 0 {
			return nil
		}
		if strings.TrimSpace(q.Residual) == "" {
			out := make([]Result, len(candidates))
			for i, rec := range candidates {
				out[i] = Result{Item: rec, Score: scoreExact}
			}
			return out
		}
	}

	text := strings.ToLower(strings.TrimSpace(q.Residual))
	if text == "" {
		return nil
	}
	tokens := strings.Fields(text)

	var out []Result
	for _, rec := range candidates {
		score, ok := e.scoreRecord(rec, text, tokens)
		if !ok {
			continue
		}
		out = append(out, Result{Item: rec, Score: score})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score < out[j].Score
	})
	return out
}

func (e *Engine) attributes(rec record.Record) []string {
	values := make([]string, 0, len(e.keys)+1)
	if rec.Type != "" {
		values = append(values, strings.ToLower(rec.Type))
	}
	for _, k := range e.keys {
		if v, ok := rec.Fields.Get(k); ok && strings.TrimSpace(v) != "" {
			values = append(values, strings.ToLower(v))
		}
	}
	return values
}

func (e *Engine) scoreRecord(rec record.Record, text string, tokens []string) (float64, bool) {
	values := e.attributes(rec)
	if len(values) == 0 {
		return 0, false
	}
	for _, v := range values {
		if v == text {
			return scoreExact, true
		}
	}

	total := 0.0
	for _, tok := range tokens {
		best := scoreNoMatch
		for _, v := range values {
			if s := e.scoreToken(tok, v); s < best {
				best = s
			}
		}
		if best >= scoreNoMatch {
			return 0, false
		}
		total += best
	}
	return total / float64(len(tokens)), true
}

// scoreToken rates a single query token against one attribute value.
func (e *Engine) scoreToken(tok, value string) float64 {
	if tok == value {
		return scoreExact
	}
	words := splitWords(value)
	for _, w := range words {
		if w == tok {
			return scoreWord
		}
	}
	if strings.HasPrefix(value, tok) {
		return scorePrefix
	}
	for _, w := range words {
		if strings.HasPrefix(w, tok) {
			return scorePrefix
		}
	}
	if idx := strings.Index(value, tok); idx >= 0 {
		return scoreSubstring + (scoreFuzzy-scoreSubstring)*float64(idx)/float64(len(value))
	}
	if s, ok := subsequenceScore(tok, value); ok {
		return s
	}
	if s, ok := e.typoScore(tok, words); ok {
		return s
	}
	return scoreNoMatch
}

// subsequenceScore uses fuzzy matching; tighter matches score better.
func subsequenceScore(tok, value string) (float64, bool) {
	matches := fuzzy.Find(tok, []string{value})
	if len(matches) == 0 {
		return 0, false
	}
	idx := matches[0].MatchedIndexes
	if len(idx) == 0 {
		return 0, false
	}
	span := idx[len(idx)-1] - idx[0] + 1
	tightness := float64(utf8.RuneCountInString(tok)) / float64(span)
	if tightness > 1 {
		tightness = 1
	}
	return scoreFuzzy + (scoreTypo-scoreFuzzy)*(1-tightness), true
}

func (e *Engine) typoScore(tok string, words []string) (float64, bool) {
	tokLen := utf8.RuneCountInString(tok)
	if tokLen < minTypoTokenLen {
		return 0, false
	}
	best := 0.0
	for _, w := range words {
		// A typo changes a word, it does not grow it by a tail.
		wLen := utf8.RuneCountInString(w)
		if abs(tokLen-wLen) > max(1, wLen/4) {
			continue
		}
		if sim := smetrics.JaroWinkler(tok, w, 0.7, 4); sim > best {
			best = sim
		}
	}
	if best < e.typoThreshold {
		return 0, false
	}
	span := 1 - e.typoThreshold
	return scoreTypo + (scoreNoMatch-scoreTypo)*0.4*(1-best)/span, true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func splitWords(value string) []string {
	return strings.FieldsFunc(value, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune("/-_.,:;()", r)
	})
}

func filterOwner(records []record.Record, owner string) []record.Record {
	out := make([]record.Record, 0, len(records))
	for _, rec := range records {
		if rec.OwnedBy(owner) {
			out = append(out, rec)
		}
	}
	return out
}

func containsString(items []string, s string) bool {
	for _, it := range items {
		if it == s {
			return true
		}
	}
	return false
}
