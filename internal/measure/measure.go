// Package measure implements the per-configured-string text measurement
// cache: per-word widths, a linked word list per cache entry, and
// generational eviction, grounded on Clay__MeasureTextCached.h and on
// grapheme-aware word scanning the way glimo's text wrapper does it
// (github.com/rivo/uniseg).
package measure

import (
	"github.com/kryvoslayout/clay/internal/slab"
	"github.com/rivo/uniseg"

	"github.com/kryvoslayout/clay/internal/arena"
)

// Func is the host-supplied measurement callback. It must be deterministic
// and non-blocking for the duration of a frame.
type Func func(text string, config TextConfig, userData any) (width, height float64)

// TextConfig is the subset of text styling that participates in the cache
// fingerprint: two runs of text with the same bytes but a different font,
// size, or letter spacing must measure (and cache) independently.
type TextConfig struct {
	FontID           uint16
	FontSize         uint16
	LetterSpacing    uint16
	LineHeight       uint16
	WrapMode         WrapMode
	TextAlignment    TextAlignment
	Color            [4]float64
	UserData         any
}

// WrapMode controls whether a text element participates in the resizable
// classification during the on-axis solver pass (only Word-wrapped text
// does).
type WrapMode uint8

const (
	WrapWords WrapMode = iota
	WrapNewlines
	WrapNone
)

// TextAlignment positions wrapped lines within their container's width.
type TextAlignment uint8

const (
	AlignLeft TextAlignment = iota
	AlignCenter
	AlignRight
)

// Word is one entry in a cache entry's linked word list: a byte-range
// into the original string, its measured width, and the index of the
// next word (-1 terminates the list). A zero-length word is an explicit
// newline marker (forced break), per spec.md §4.3.
type Word struct {
	Start      int
	Length     int
	Width      float64
	Next       int32
	IsNewline  bool
}

// Entry is the persistent measurement for one (text, TextConfig)
// fingerprint: its unwrapped dimensions, the narrowest any single word
// requires, the head of its word list, whether it contains forced
// newlines, and the generation it was last touched in.
type Entry struct {
	Dimensions       Dimensions
	MinWidth         float64
	WordsHead        int32
	ContainsNewlines bool
	Generation       uint32
	Text             string
}

// Dimensions avoids importing geom from this low-level package; the
// layout package converts at its boundary.
type Dimensions struct {
	Width, Height float64
}

// maxGenerationAge is how many frames an entry may go untouched before it
// becomes eligible for eviction (spec.md: "entries older than two
// frames").
const maxGenerationAge = 2

// Cache is the persistent text-measurement cache. Its word slab and entry
// table are both fixed capacity: the word slab is carved from a
// caller-provided arena at construction, the entry table is a slice
// allocated at construction. Hosts size them with the
// WithMaxMeasureTextCacheWordCount/WithMaxMeasureTextCacheEntries options
// passed to Initialize.
type Cache struct {
	words       slab.Slab[Word]
	freeWord    int32
	buckets     []int32
	entries     []entrySlot
	generation  uint32
	measureFn   Func

	missingFnLatched  bool
	capacityLatched   bool
}

type entrySlot struct {
	fingerprint uint32
	entry       Entry
	bound       bool
	next        int32
}

const emptyHead = int32(-1)

// NewCache carves a word slab of wordCapacity entries from a and a
// fingerprint table of entryCapacity slots. ok is false if the arena
// lacked room for the word slab.
func NewCache(a *arena.Arena, wordCapacity, entryCapacity int) (*Cache, bool) {
	words, ok := slab.New[Word](a, wordCapacity)
	if !ok {
		return nil, false
	}
	if entryCapacity < 1 {
		entryCapacity = 1
	}
	buckets := make([]int32, entryCapacity)
	for i := range buckets {
		buckets[i] = emptyHead
	}
	return &Cache{
		words:      words,
		freeWord:   emptyHead,
		buckets:    buckets,
		entries:    make([]entrySlot, 0, entryCapacity),
	}, true
}

// SetMeasureFunc installs the host's measurement callback.
func (c *Cache) SetMeasureFunc(fn Func) { c.measureFn = fn }

// BeginFrame advances the generation counter and clears per-frame error
// latches, called once from BeginLayout.
func (c *Cache) BeginFrame(generation uint32) {
	c.generation = generation
	c.missingFnLatched = false
	c.capacityLatched = false
}

func bucketFor(buckets []int32, fp uint32) int {
	return int(fp % uint32(len(buckets)))
}

func (c *Cache) findSlot(fp uint32) *entrySlot {
	b := bucketFor(c.buckets, fp)
	for idx := c.buckets[b]; idx != emptyHead; idx = c.entries[idx].next {
		if c.entries[idx].fingerprint == fp && c.entries[idx].bound {
			return &c.entries[idx]
		}
	}
	return nil
}

func (c *Cache) evict(slot *entrySlot) {
	// Return the word chain to the free list.
	idx := slot.entry.WordsHead
	for idx != emptyHead {
		w := c.words.Ptr(int(idx))
		if w == nil {
			break
		}
		next := w.Next
		w.Next = c.freeWord
		c.freeWord = idx
		idx = next
	}
	slot.bound = false
}

// MissingFunction reports whether Measure was asked to run without a
// measurement callback installed during this frame (latched: only the
// first such occurrence per frame needs to be reported upstream).
func (c *Cache) MissingFunction() bool { return c.missingFnLatched }

// CapacityExceeded reports whether the word or entry slab filled up
// during this frame.
func (c *Cache) CapacityExceeded() bool { return c.capacityLatched }

// Measure returns the cached measurement for text under config, computing
// and caching it on a miss. fingerprint is the caller-computed hash of
// text bytes plus the config fields that affect measurement (FontID,
// FontSize, LetterSpacing) — callers derive it via
// ident.HashString/HashNumber so this package stays independent of the
// identity-hashing scheme.
func (c *Cache) Measure(fingerprint uint32, text string, config TextConfig, userData any) (Entry, bool) {
	if slot := c.findSlot(fingerprint); slot != nil {
		if c.generation-slot.entry.Generation > maxGenerationAge {
			c.evict(slot)
		} else {
			slot.entry.Generation = c.generation
			return slot.entry, true
		}
	}
	if c.measureFn == nil {
		c.missingFnLatched = true
		return Entry{}, false
	}
	entry, ok := c.scanAndMeasure(text, config, userData)
	if !ok {
		c.capacityLatched = true
		return Entry{}, false
	}
	entry.Generation = c.generation
	entry.Text = text
	if !c.bind(fingerprint, entry) {
		c.capacityLatched = true
		return Entry{}, false
	}
	return entry, true
}

func (c *Cache) bind(fp uint32, entry Entry) bool {
	b := bucketFor(c.buckets, fp)
	for idx := c.buckets[b]; idx != emptyHead; idx = c.entries[idx].next {
		if c.entries[idx].fingerprint == fp {
			c.entries[idx].entry = entry
			c.entries[idx].bound = true
			return true
		}
	}
	if len(c.entries) >= cap(c.entries) {
		return false
	}
	c.entries = append(c.entries, entrySlot{fingerprint: fp, entry: entry, bound: true, next: c.buckets[b]})
	c.buckets[b] = int32(len(c.entries) - 1)
	return true
}

func (c *Cache) allocWord(w Word) (int32, bool) {
	if c.freeWord != emptyHead {
		idx := c.freeWord
		slot := c.words.Ptr(int(idx))
		c.freeWord = slot.Next
		w.Next = emptyHead
		*slot = w
		return idx, true
	}
	i, ok := c.words.Push(w)
	if !ok {
		return emptyHead, false
	}
	return int32(i), true
}

// scanAndMeasure walks text byte-by-byte (grapheme-cluster-aware via
// uniseg so multi-byte glyphs are never split mid-word), measuring each
// space/newline-delimited word through the host callback and appending it
// to a linked list. A newline produces a zero-length marker word.
func (c *Cache) scanAndMeasure(text string, config TextConfig, userData any) (Entry, bool) {
	var entry Entry
	var headIdx, tailIdx int32 = emptyHead, emptyHead
	appendWord := func(w Word) bool {
		idx, ok := c.allocWord(w)
		if !ok {
			return false
		}
		if headIdx == emptyHead {
			headIdx = idx
		} else {
			c.words.Ptr(int(tailIdx)).Next = idx
		}
		tailIdx = idx
		return true
	}

	wordStart := 0
	byteOffset := 0
	flush := func(end int) bool {
		if end <= wordStart {
			return true
		}
		word := text[wordStart:end]
		w, h := c.measureFn(word, config, userData)
		if w > entry.MinWidth {
			entry.MinWidth = w
		}
		entry.Dimensions.Height = maxF(entry.Dimensions.Height, h)
		return appendWord(Word{Start: wordStart, Length: end - wordStart, Width: w})
	}

	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		runes := gr.Runes()
		clusterStart := byteOffset
		clusterLen := len(gr.Str())
		byteOffset += clusterLen

		isSpace := len(runes) == 1 && runes[0] == ' '
		isNewline := len(runes) == 1 && (runes[0] == '\n' || runes[0] == '\r')

		if isSpace {
			if !flush(clusterStart) {
				return Entry{}, false
			}
			wordStart = clusterStart + clusterLen
			continue
		}
		if isNewline {
			if !flush(clusterStart) {
				return Entry{}, false
			}
			if !appendWord(Word{Start: clusterStart, Length: 0, IsNewline: true}) {
				return Entry{}, false
			}
			entry.ContainsNewlines = true
			wordStart = clusterStart + clusterLen
			continue
		}
	}
	if !flush(len(text)) {
		return Entry{}, false
	}

	entry.WordsHead = headIdx
	w, h := c.measureFn(text, config, userData)
	_ = h
	entry.Dimensions.Width = w
	return entry, true
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Words returns the linked word list for an entry as a slice, in order,
// for the wrapper to consume. headIdx comes from Entry.WordsHead.
func (c *Cache) Words(headIdx int32) []Word {
	var out []Word
	for idx := headIdx; idx != emptyHead; {
		w := c.words.Ptr(int(idx))
		if w == nil {
			break
		}
		out = append(out, *w)
		idx = w.Next
	}
	return out
}
