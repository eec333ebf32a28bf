package converter

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
)

// decodeText returns raw as UTF-8 text. A byte order mark selects the
// encoding and is stripped; other input that is not valid UTF-8 is read as
// Windows-1252, the usual encoding of spreadsheet exports on lab PCs.
func decodeText(raw []byte) (string, error) {
	if bytes.HasPrefix(raw, bomUTF8) || bytes.HasPrefix(raw, bomUTF16BE) || bytes.HasPrefix(raw, bomUTF16LE) {
		decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
		if err != nil {
			return "", err
		}
		return string(decoded), nil
	}

	if utf8.Valid(raw) {
		return string(raw), nil
	}

	decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), raw)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
