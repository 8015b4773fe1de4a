package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// Runs of anything that is not a lowercase letter or digit
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

	// Same, for names written entirely outside the Latin alphabet
	nonLetterOrDigit = regexp.MustCompile(`[^\p{L}\p{N}]+`)
)

// Slugify converts a free-text name into the key used for categories.
//
//	"Science Fiction" -> "science-fiction"
//	"Sci-Fi/Fantasy"  -> "sci-fi-fantasy"
//	"Café Noir"       -> "cafe-noir"
//	"漫画 Manga"        -> "manga"
//	"日本 小説"          -> "日本-小説"
func Slugify(name string) string {
	if slug := asciiSlug(name); slug != "" {
		return slug
	}

	s := strings.ToLower(norm.NFKC.String(name))
	s = nonLetterOrDigit.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func asciiSlug(name string) string {
	// Decompose accented characters so the base letter survives the ASCII filter
	s := norm.NFKD.String(name)

	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}

// UniqueStrings returns the union of the given lists, keeping the first
// occurrence order. Comparison is exact; blank entries are dropped.
func UniqueStrings(lists ...[]string) []string {
	seen := make(map[string]struct{})
	result := make([]string, 0)
	for _, list := range lists {
		for _, item := range list {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			result = append(result, item)
		}
	}
	return result
}
