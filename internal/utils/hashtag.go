package utils

import (
	"regexp"
	"strings"
)

var hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)

// ExtractHashtags returns the hashtags of message without their leading '#',
// de-duplicated and in order of first appearance. "#run#swim" yields two tags.
func ExtractHashtags(message string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(message, -1)
	hashtags := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))

	for _, match := range matches {
		tag := match[1]
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		hashtags = append(hashtags, tag)
	}
	return hashtags
}

// NormalizeHashtag strips surrounding whitespace and one leading '#'.
func NormalizeHashtag(tag string) string {
	return strings.TrimPrefix(strings.TrimSpace(tag), "#")
}
