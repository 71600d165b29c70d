// Package tokenizer segments free-text post titles into search keywords.
// It wraps a gse segmenter (jieba-style dictionary segmentation) so that
// titles without word delimiters — Chinese in particular — still yield
// useful tokens; already-delimited text falls through on the same path.
//
// Segmentation is CPU-bound while everything around it is I/O-bound, so
// cuts run on a fixed pool of worker goroutines instead of the caller's
// goroutine. A single oversized title then cannot stall unrelated
// request handling.
package tokenizer

import (
	"context"
	"strings"
	"unicode"

	"github.com/go-ego/gse"
)

type job struct {
	title string
	out   chan []string
}

// Tokenizer turns titles into keyword sequences. Safe for concurrent
// use; the dictionary is loaded once at construction and never changes,
// so output is deterministic for a given input.
type Tokenizer struct {
	seg  gse.Segmenter
	jobs chan job
}

// New loads the segmentation dictionary and starts the worker pool.
// An empty dictPath loads the segmenter's embedded default dictionary.
func New(workers int, dictPath string) (*Tokenizer, error) {
	if workers <= 0 {
		workers = 1
	}

	t := &Tokenizer{jobs: make(chan job)}

	var err error
	if dictPath == "" {
		err = t.seg.LoadDict()
	} else {
		err = t.seg.LoadDict(dictPath)
	}
	if err != nil {
		return nil, err
	}

	for range workers {
		go t.worker()
	}
	return t, nil
}

func (t *Tokenizer) worker() {
	for j := range t.jobs {
		j.out <- t.segment(j.title)
	}
}

// Cut segments title into keywords on the worker pool, blocking until a
// worker picks up the job and finishes. The only error is ctx expiring
// while waiting; an empty title yields an empty result, never an error.
func (t *Tokenizer) Cut(ctx context.Context, title string) ([]string, error) {
	if strings.TrimSpace(title) == "" {
		return nil, nil
	}

	j := job{title: title, out: make(chan []string, 1)}
	select {
	case t.jobs <- j:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case tokens := <-j.out:
		return tokens, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops the worker pool. Cut must not be called after Close.
func (t *Tokenizer) Close() {
	close(t.jobs)
}

// segment runs the dictionary cut and drops tokens that carry no
// search value (whitespace, bare punctuation).
func (t *Tokenizer) segment(title string) []string {
	cut := t.seg.Cut(title, true)

	tokens := make([]string, 0, len(cut))
	for _, tok := range cut {
		tok = strings.TrimSpace(tok)
		if tok == "" || !hasWordRune(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

func hasWordRune(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
