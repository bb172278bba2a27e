package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// Label keywords judges use for sample blocks, across the locales the
// supported sites render in.
var (
	InputLikeNames  = []string{"input", "入力"}
	OutputLikeNames = []string{"output", "出力"}
)

// Dos2Unix rewrites CRLF line endings to bare LF. Judges compare program
// output byte for byte, so samples must not keep browser line endings.
func Dos2Unix(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// Textfile ensures non-empty content ends with a newline, the way judges
// store expected output files.
func Textfile(s string) string {
	if s != "" && !strings.HasSuffix(s, "\n") {
		return s + "\n"
	}
	return s
}
