package parser

import (
	"regexp"
	"strings"
)

// Tried in order; the first match wins.
var productIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)/dp/([A-Z0-9]{10})`),
	regexp.MustCompile(`(?i)/product/([A-Z0-9]{10})`),
	regexp.MustCompile(`(?i)/gp/product/([A-Z0-9]{10})`),
	regexp.MustCompile(`(?i)asin=([A-Z0-9]{10})`),
	regexp.MustCompile(`(?i)^([A-Z0-9]{10})$`),
}

// ExtractProductID pulls a 10-character marketplace id out of a product URL
// or accepts a bare id. The result is upper-cased.
func ExtractProductID(input string) (string, bool) {
	input = strings.TrimSpace(input)
	for _, pattern := range productIDPatterns {
		if m := pattern.FindStringSubmatch(input); m != nil {
			return strings.ToUpper(m[1]), true
		}
	}
	return "", false
}
