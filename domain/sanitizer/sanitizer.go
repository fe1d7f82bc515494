// Package sanitizer redacts profanity, invite links and generic links from
// text that is relayed into other guilds.
package sanitizer

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
)

const (
	// MaskChar replaces every masked profanity term
	MaskChar = '#'
	// MaskLength is the fixed length of a profanity mask regardless of the term
	MaskLength = 4

	InvitePlaceholder = ":lock: [discord invite redacted] :lock:"
	LinkPlaceholder   = ":lock: [link redacted] :lock:"
)

var (
	inviteRegex = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?discord(?:\.gg|(?:app)?\.com/invite)/[^/\s]+`)
	linkRegex   = regexp.MustCompile(`(?i)https?://[^\s<>]+`)

	mask = strings.Repeat(string(MaskChar), MaskLength)
)

// DefaultWords is the built-in profanity list used when no word list file is configured
var DefaultWords = []string{
	"fuck", "fucking", "shit", "bitch", "asshole", "bastard", "cunt", "dick",
	"kys", "balls", "ballss", "ʙᴀʟʟꜱ",
}

// Sanitizer applies the three redaction passes in a fixed order:
// profanity masking, invite redaction, then generic link redaction.
type Sanitizer struct {
	terms map[string]struct{}
}

// New creates a sanitizer for the given profanity terms. Terms are matched
// case-insensitively against whole words. Terms that are not a single word, or
// that appear in a redaction placeholder, are dropped so that sanitizing twice
// never changes the output again.
func New(words []string) *Sanitizer {
	reserved := placeholderWords()
	terms := make(map[string]struct{}, len(words))
	for _, w := range words {
		term := strings.ToLower(strings.TrimSpace(w))
		if term == "" {
			continue
		}
		if !isSingleWord(term) {
			log.WithField("term", w).Warn("Ignoring profanity term that is not a single word")
			continue
		}
		if _, ok := reserved[term]; ok {
			log.WithField("term", w).Warn("Ignoring profanity term that collides with a redaction placeholder")
			continue
		}
		terms[term] = struct{}{}
	}
	return &Sanitizer{terms: terms}
}

// NewDefault creates a sanitizer using DefaultWords
func NewDefault() *Sanitizer {
	return New(DefaultWords)
}

// Terms returns the active profanity terms in sorted order
func (s *Sanitizer) Terms() []string {
	out := make([]string, 0, len(s.terms))
	for t := range s.terms {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Sanitize runs all redaction passes. It is total, deterministic and idempotent.
// Profanity is masked once more after link redaction because a removed URL can
// leave a term standing as a whole word next to a placeholder.
func (s *Sanitizer) Sanitize(text string) string {
	text = s.CensorProfanity(text)
	text = RedactInvites(text)
	text = RedactLinks(text)
	return s.CensorProfanity(text)
}

// CensorProfanity replaces each whole-word profanity term with a fixed-length mask
func (s *Sanitizer) CensorProfanity(text string) string {
	if len(s.terms) == 0 || text == "" {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))

	wordStart := -1
	flush := func(end int) {
		word := text[wordStart:end]
		if _, ok := s.terms[strings.ToLower(word)]; ok {
			b.WriteString(mask)
		} else {
			b.WriteString(word)
		}
		wordStart = -1
	}

	for i, r := range text {
		if isWordRune(r) {
			if wordStart < 0 {
				wordStart = i
			}
			continue
		}
		if wordStart >= 0 {
			flush(i)
		}
		b.WriteRune(r)
	}
	if wordStart >= 0 {
		flush(len(text))
	}

	return b.String()
}

// RedactInvites replaces chat invite URLs with InvitePlaceholder
func RedactInvites(text string) string {
	return inviteRegex.ReplaceAllLiteralString(text, InvitePlaceholder)
}

// RedactLinks replaces http(s) URLs with LinkPlaceholder
func RedactLinks(text string) string {
	return linkRegex.ReplaceAllLiteralString(text, LinkPlaceholder)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

func isSingleWord(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if !isWordRune(r) {
			return false
		}
	}
	return true
}

// placeholderWords returns the lowercase words that occur in the placeholders
func placeholderWords() map[string]struct{} {
	words := make(map[string]struct{})
	for _, p := range []string{InvitePlaceholder, LinkPlaceholder} {
		for _, w := range strings.FieldsFunc(p, func(r rune) bool { return !isWordRune(r) }) {
			words[strings.ToLower(w)] = struct{}{}
		}
	}
	return words
}
