package savegame

import (
	"strings"
	"unicode/utf8"

	"github.com/flytam/filenamify"
)

// MaxNameBytes caps sanitized names so the file name stays within common
// filesystem limits once the extension is added.
const MaxNameBytes = 240

// nameReplacement stands in for every character a file name cannot hold.
const nameReplacement = "_"

// SanitizeName turns user input into a safe file name stem. Whitespace
// runs collapse to one space, path separators and reserved or control
// characters become "_", and leading or trailing dots and spaces are
// trimmed. An empty result means the name is unusable.
func SanitizeName(name string) string {
	s := strings.Join(strings.Fields(strings.ToValidUTF8(name, "")), " ")
	if s == "" {
		return ""
	}

	// Reserved device names grow by one replacement, so leave room for it.
	out, err := filenamify.Filenamify(s, filenamify.Options{
		Replacement: nameReplacement,
		MaxLength:   len(s) + len(nameReplacement),
	})
	if err != nil {
		return ""
	}

	out = strings.Trim(out, ". ")
	for len(out) > MaxNameBytes {
		_, size := utf8.DecodeLastRuneInString(out)
		out = out[:len(out)-size]
	}
	out = strings.TrimRight(out, ". ")

	if strings.Trim(out, nameReplacement+". ") == "" {
		return ""
	}
	return out
}
