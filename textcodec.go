package mdict

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// headerAttrPattern matches loose name="value" tokens in the XML-like
// outer header, tolerating escaped quotes inside the value.
var headerAttrPattern = regexp.MustCompile(`(\w+)="((?:[^"\\]|\\.)*)"`)

var entityReplacer = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
	"&quot;", `"`,
	"&apos;", "'",
)

func unescapeEntities(s string) string {
	return entityReplacer.Replace(s)
}

// decodeText converts a byte run in the given charset to a Go string,
// after stripping trailing NUL bytes (width-matched to the charset).
func decodeText(b []byte, enc TextEncoding) (string, error) {
	b = trimTrailingNUL(b, enc)
	switch enc {
	case EncodingUTF8:
		if !utf8.Valid(b) {
			return "", newError(KindEncoding, fmt.Errorf("invalid utf-8 byte sequence"))
		}
		return string(b), nil
	case EncodingUTF16LE:
		return decodeUTF16LE(b)
	case EncodingGB18030:
		out, err := simplifiedchinese.GB18030.NewDecoder().Bytes(b)
		if err != nil {
			return "", newError(KindEncoding, err)
		}
		return string(out), nil
	case EncodingBig5:
		out, err := traditionalchinese.Big5.NewDecoder().Bytes(b)
		if err != nil {
			return "", newError(KindEncoding, err)
		}
		return string(out), nil
	default:
		return "", newError(KindEncoding, fmt.Errorf("unknown text encoding %v", enc))
	}
}

// decodeUTF16LE decodes the outer header text and any other field the
// format fixes to UTF-16LE regardless of the dictionary's declared
// content encoding.
func decodeUTF16LE(b []byte) (string, error) {
	out, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(b)
	if err != nil {
		return "", newError(KindEncoding, err)
	}
	return string(out), nil
}

func trimTrailingNUL(b []byte, enc TextEncoding) []byte {
	width := 1
	if enc == EncodingUTF16LE {
		width = 2
	}
	end := len(b)
	for end >= width {
		zero := true
		for i := 0; i < width; i++ {
			if b[end-width+i] != 0 {
				zero = false
				break
			}
		}
		if !zero {
			break
		}
		end -= width
	}
	return b[:end]
}

// parseHeaderAttrs extracts name="value" tokens from the decoded outer
// header text, unescaping the five standard XML entities in each value.
func parseHeaderAttrs(text string) (map[string]string, error) {
	matches := headerAttrPattern.FindAllStringSubmatch(text, -1)
	out := make(map[string]string, len(matches))
	for _, m := range matches {
		out[m[1]] = unescapeEntities(m[2])
	}
	return out, nil
}
