package logx

import (
	"regexp"
)

type SensitiveDataMaskerInterface interface {
	Mask(input []byte) []byte
}

// Header lines of dumped requests and responses.
//
//nolint:gochecknoglobals
var sensitiveHeaderPatterns = []*regexp.Regexp{
	regexp.MustCompile("(?i)(Authorization: ).+?(\r?\n)"),
	regexp.MustCompile("(?i)(Cookie: ).+?(\r?\n)"),
	regexp.MustCompile("(?i)(X-Api-Key: ).+?(\r?\n)"),
}

// SensitiveDataMasker hides credentials in headers and the values of the
// configured JSON string fields.
type SensitiveDataMasker struct {
	patterns []*regexp.Regexp
}

func NewSensitiveDataMasker(jsonFields ...string) SensitiveDataMasker {
	patterns := append([]*regexp.Regexp{}, sensitiveHeaderPatterns...)

	for _, field := range jsonFields {
		patterns = append(patterns, regexp.MustCompile(`(?s)("(?i:`+regexp.QuoteMeta(field)+`)":\s?").+?(")`))
	}

	return SensitiveDataMasker{patterns: patterns}
}

func (s SensitiveDataMasker) Mask(input []byte) []byte {
	for _, pattern := range s.patterns {
		input = pattern.ReplaceAll(input, []byte("${1}[MASKED]${2}"))
	}

	return input
}
