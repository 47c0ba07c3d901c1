package aptos

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/tyler-smith/go-bip39"

	coreerr "github.com/mrz1836/corecall/pkg/errors"
)

// ErrInvalidWordCount indicates the mnemonic must be 12 or 24 words.
var ErrInvalidWordCount = errors.New("word count must be 12 or 24")

// MaxTypoDistance is the largest edit distance still offered as a suggestion.
const MaxTypoDistance = 2

var (
	whitespaceRegex   = regexp.MustCompile(`\s+`)
	numberedListRegex = regexp.MustCompile(`(?m)^\s*\d+[\.\)\:]\s*`)
	bulletListRegex   = regexp.MustCompile(`(?m)^\s*[-*•]\s*`)
)

// GenerateMnemonic creates a BIP39 phrase of 12 or 24 words.
func GenerateMnemonic(wordCount int) (string, error) {
	var bits int
	switch wordCount {
	case 12:
		bits = 128
	case 24:
		bits = 256
	default:
		return "", ErrInvalidWordCount
	}

	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", fmt.Errorf("generating entropy: %w", err)
	}
	return bip39.NewMnemonic(entropy)
}

// NormalizeMnemonic lowercases the phrase, strips list numbering, bullets and
// commas, and collapses whitespace.
func NormalizeMnemonic(input string) string {
	input = strings.ToLower(input)
	input = numberedListRegex.ReplaceAllString(input, " ")
	input = bulletListRegex.ReplaceAllString(input, " ")
	input = strings.ReplaceAll(input, ",", " ")
	input = whitespaceRegex.ReplaceAllString(input, " ")
	return strings.TrimSpace(input)
}

// ValidateMnemonic checks word count, word membership and checksum. When
// misspelled words are found the error carries suggestions.
func ValidateMnemonic(mnemonic string) error {
	normalized := NormalizeMnemonic(mnemonic)
	words := strings.Fields(normalized)
	if len(words) != 12 && len(words) != 24 {
		return coreerr.WithDetails(coreerr.ErrInvalidMnemonic, map[string]string{
			"words": strconv.Itoa(len(words)),
		})
	}

	if typos := DetectTypos(normalized); len(typos) > 0 {
		return coreerr.WithSuggestion(coreerr.ErrInvalidMnemonic, FormatTypoSuggestions(typos))
	}

	if _, err := bip39.MnemonicToByteArray(normalized); err != nil {
		return coreerr.Wrap(coreerr.ErrInvalidMnemonic, "checksum: %v", err)
	}
	return nil
}

// SeedFromMnemonic validates the phrase and derives its 64-byte BIP39 seed.
func SeedFromMnemonic(mnemonic, passphrase string) ([]byte, error) {
	if err := ValidateMnemonic(mnemonic); err != nil {
		return nil, err
	}
	return bip39.NewSeed(NormalizeMnemonic(mnemonic), passphrase), nil
}

// IsValidWord reports whether word is in the BIP39 English list.
func IsValidWord(word string) bool {
	_, ok := bip39.GetWordIndex(strings.ToLower(word))
	return ok
}

// TypoInfo describes one word of a phrase that is not in the word list.
type TypoInfo struct {
	Index      int    // 0-based position in the phrase
	Word       string // as typed
	Suggestion string // closest list word, empty when none is close
	Distance   int
}

// SuggestWord returns the closest BIP39 word within MaxTypoDistance edits,
// or "" when nothing is close enough.
func SuggestWord(input string) string {
	input = strings.ToLower(input)
	best, bestDist := "", math.MaxInt
	for _, w := range bip39.GetWordList() {
		d := levenshtein.ComputeDistance(input, w)
		if d == 0 {
			return w
		}
		if d < bestDist {
			best, bestDist = w, d
		}
	}
	if bestDist <= MaxTypoDistance {
		return best
	}
	return ""
}

// DetectTypos lists the words of mnemonic that are not BIP39 words.
func DetectTypos(mnemonic string) []TypoInfo {
	var typos []TypoInfo
	for i, w := range strings.Fields(NormalizeMnemonic(mnemonic)) {
		if IsValidWord(w) {
			continue
		}
		t := TypoInfo{Index: i, Word: w, Suggestion: SuggestWord(w)}
		if t.Suggestion != "" {
			t.Distance = levenshtein.ComputeDistance(w, t.Suggestion)
		}
		typos = append(typos, t)
	}
	return typos
}

// FormatTypoSuggestions renders typos one per line with 1-based positions.
func FormatTypoSuggestions(typos []TypoInfo) string {
	lines := make([]string, 0, len(typos))
	for _, t := range typos {
		if t.Suggestion != "" {
			lines = append(lines, fmt.Sprintf("Word %d: '%s' - did you mean '%s'?", t.Index+1, t.Word, t.Suggestion))
			continue
		}
		lines = append(lines, fmt.Sprintf("Word %d: '%s' is not a valid BIP39 word", t.Index+1, t.Word))
	}
	return strings.Join(lines, "\n")
}
