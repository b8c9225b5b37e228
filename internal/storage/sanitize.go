package storage

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename reduces an uploaded filename to a safe base name made of
// ASCII letters, digits, '_', '.' and '-'. Path separators become word breaks,
// whitespace runs become a single '_', and leading or trailing '.' and '_' are
// stripped. The result may be empty, in which case the file must be skipped.
//
//	SanitizeFilename("../../etc/passwd") == "etc_passwd"
//	SanitizeFilename("My Photo.JPG")    == "My_Photo.JPG"
func SanitizeFilename(name string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	ascii, _, err := transform.String(t, name)
	if err != nil {
		return ""
	}

	ascii = strings.NewReplacer("/", " ", `\`, " ").Replace(ascii)
	ascii = strings.Join(strings.Fields(ascii), "_")
	ascii = unsafeFilenameChars.ReplaceAllString(ascii, "")
	return strings.Trim(ascii, "._")
}
