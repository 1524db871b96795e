// Package lemmagen reduces inflected words to their lemmas using the compiled
// ripple-down-rule trees produced by the LemmaGen learner.
//
// A model is a single flat buffer of node records forming a trie that is read
// from the end of a word towards its start. Internal nodes branch through a
// small hash table keyed by the next character; ADD_CHAR nodes guard a literal
// multi-character suffix so chains of single-child nodes collapse into one
// record. Every node refers to the rule that applies when matching stops there:
// strip fromLen trailing characters and append a replacement suffix.
//
// Models are immutable once loaded and may be shared between goroutines.
package lemmagen

// Lemmatize returns the lemma of word according to m. It fails with
// ErrModelNotLoaded when m is nil or empty.
func Lemmatize(m *Model, word string) (string, error) {
	return m.Lemmatize(word)
}
