package tinyweb

import (
	"fmt"
	"strings"
)

// ParseRequestLine splits line on ASCII spaces into method, path and protocol.
// Runs of spaces count as one separator. Exactly three tokens are required.
// The path token is lower-cased; the method token is returned untouched.
func ParseRequestLine(line string) (RequestLine, error) {
	tokens := strings.FieldsFunc(line, func(r rune) bool { return r == ' ' })
	if len(tokens) != 3 {
		return RequestLine{}, fmt.Errorf("parse request line: %d tokens: %w", len(tokens), ErrMalformedRequestLine)
	}

	return RequestLine{
		Method: tokens[0],
		Path:   strings.ToLower(tokens[1]),
		Proto:  tokens[2],
	}, nil
}
