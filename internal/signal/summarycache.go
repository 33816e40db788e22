package signal

import lru "github.com/hashicorp/golang-lru/v2"

// SummaryCache memoizes a cheap comparison key for values too expensive
// to compare structurally on every write — spec.md's Design Notes call
// for "explicit summary equality" over a large struct rather than deep
// structural comparison; this is the opt-in memoization for when even
// computing that summary is non-trivial (e.g. hashing a parsed file's
// header) and would otherwise run on every SetIfChanged.
//
// Keyed by a caller-supplied identity rather than the value itself,
// since the values being summarized (tracked-file headers, parsed
// variable metadata) are not generally comparable or hashable on their
// own.
type SummaryCache[ID comparable, T any] struct {
	cache     *lru.Cache[ID, string]
	summarize func(T) string
}

// NewSummaryCache builds a cache holding at most capacity entries,
// evicting least-recently-used summaries once full.
func NewSummaryCache[ID comparable, T any](capacity int, summarize func(T) string) *SummaryCache[ID, T] {
	c, err := lru.New[ID, string](capacity)
	if err != nil {
		panic(err) // capacity <= 0 is a caller bug, not a runtime condition
	}
	return &SummaryCache[ID, T]{cache: c, summarize: summarize}
}

// Changed reports whether next's summary differs from the last one
// stored for id (or id has never been seen). It computes next's summary
// on every call and returns it, so the caller can pass it to Store
// without summarizing next a second time.
func (sc *SummaryCache[ID, T]) Changed(id ID, next T) (changed bool, nextSummary string) {
	nextSummary = sc.summarize(next)
	prev, ok := sc.cache.Get(id)
	return !ok || prev != nextSummary, nextSummary
}

// Store records summary as id's new baseline.
func (sc *SummaryCache[ID, T]) Store(id ID, summary string) {
	sc.cache.Add(id, summary)
}
