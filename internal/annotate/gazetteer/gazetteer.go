// internal/annotate/gazetteer/gazetteer.go

// Package gazetteer provides an offline Annotator that tags known phrases
// from a dictionary file. It needs no model download and is deterministic,
// which makes it the default backend for smoke runs and benchmarks of the
// pipeline itself.
package gazetteer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/UCREL/HEC/internal/annotate"
)

// ErrEmptyGazetteer is returned when a dictionary contains no usable entries.
var ErrEmptyGazetteer = errors.New("gazetteer has no entries")

// Entry is one dictionary phrase with its label.
type Entry struct {
	Label  string
	Phrase string
}

type phrase struct {
	label  string
	tokens []string
}

type token struct {
	text       string
	start, end int // rune offsets, half-open
}

// Annotator tags every non-overlapping occurrence of a dictionary phrase.
// At each position the longest matching phrase wins.
type Annotator struct {
	foldCase bool
	byFirst  map[string][]phrase
	entries  int
}

// Option customises an Annotator.
type Option func(*Annotator)

// WithCaseFolding makes matching case-insensitive. Reported entity text is
// always taken from the input.
func WithCaseFolding() Option {
	return func(a *Annotator) { a.foldCase = true }
}

// New builds an Annotator from entries.
func New(entries []Entry, opts ...Option) (*Annotator, error) {
	a := &Annotator{byFirst: make(map[string][]phrase)}
	for _, opt := range opts {
		opt(a)
	}

	for _, e := range entries {
		label := strings.TrimSpace(e.Label)
		toks := tokenize(e.Phrase)
		if label == "" || len(toks) == 0 {
			continue
		}
		words := make([]string, len(toks))
		for i, t := range toks {
			words[i] = a.key(t.text)
		}
		a.byFirst[words[0]] = append(a.byFirst[words[0]], phrase{label: label, tokens: words})
		a.entries++
	}
	if a.entries == 0 {
		return nil, ErrEmptyGazetteer
	}

	for first := range a.byFirst {
		candidates := a.byFirst[first]
		sort.SliceStable(candidates, func(i, j int) bool {
			return len(candidates[i].tokens) > len(candidates[j].tokens)
		})
	}
	return a, nil
}

// Load reads a gazetteer from path. See Parse for the format.
func Load(path string, opts ...Option) (*Annotator, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gazetteer %q: %w", path, err)
	}
	defer file.Close()

	entries, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parse gazetteer %q: %w", path, err)
	}
	return New(entries, opts...)
}

// Parse reads "LABEL<TAB>phrase" lines. Blank lines and lines starting with
// '#' are ignored.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		label, text, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("line %d: expected LABEL<TAB>phrase", lineNo)
		}
		entries = append(entries, Entry{Label: strings.TrimSpace(label), Phrase: strings.TrimSpace(text)})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Name implements annotate.Annotator.
func (a *Annotator) Name() string { return "gazetteer" }

// Len returns the number of dictionary phrases.
func (a *Annotator) Len() int { return a.entries }

// Close implements annotate.Annotator.
func (a *Annotator) Close() error { return nil }

// Annotate implements annotate.Annotator.
func (a *Annotator) Annotate(ctx context.Context, texts []string) ([]annotate.Document, error) {
	docs := make([]annotate.Document, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		docs[i] = annotate.Document{Text: text, Entities: a.match(text)}
	}
	return docs, nil
}

func (a *Annotator) match(text string) []annotate.Entity {
	toks := tokenize(text)
	runes := []rune(text)
	entities := []annotate.Entity{}

	for i := 0; i < len(toks); {
		matched := 0
		var label string
		for _, cand := range a.byFirst[a.key(toks[i].text)] {
			if a.matchesAt(toks, i, cand.tokens) {
				matched = len(cand.tokens)
				label = cand.label
				break
			}
		}
		if matched == 0 {
			i++
			continue
		}

		start, end := toks[i].start, toks[i+matched-1].end
		entities = append(entities, annotate.Entity{
			Text:  string(runes[start:end]),
			Label: label,
			Start: start,
			End:   end,
		})
		i += matched
	}
	return entities
}

func (a *Annotator) matchesAt(toks []token, at int, words []string) bool {
	if at+len(words) > len(toks) {
		return false
	}
	for j, w := range words {
		if a.key(toks[at+j].text) != w {
			return false
		}
	}
	return true
}

func (a *Annotator) key(s string) string {
	if a.foldCase {
		return strings.ToLower(s)
	}
	return s
}

// tokenize splits text into word tokens (letters, digits, apostrophes and
// inner hyphens) and single-rune punctuation tokens, recording rune offsets.
func tokenize(text string) []token {
	var toks []token
	runes := []rune(text)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case isWordRune(r):
			j := i + 1
			for j < len(runes) && (isWordRune(runes[j]) || (runes[j] == '-' && j+1 < len(runes) && isWordRune(runes[j+1]))) {
				j++
			}
			toks = append(toks, token{text: string(runes[i:j]), start: i, end: j})
			i = j
		default:
			toks = append(toks, token{text: string(r), start: i, end: i + 1})
			i++
		}
	}
	return toks
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '’'
}
