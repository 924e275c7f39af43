// Package token provides a generic find-and-replace scanner over
// delimited regions of text, e.g. "${...}" placeholders. The scanner
// finds each region, hands its content to a handler, and splices the
// handler's result back into the output.
package token

import "strings"

// Handler rewrites the content found between the open and close tokens.
type Handler interface {
	HandleToken(content string) string
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(content string) string

func (f HandlerFunc) HandleToken(content string) string { return f(content) }

// Parser scans text for regions delimited by an open and a close token.
// A backslash escapes the token that follows it: the backslash is
// dropped and the token is emitted literally. An open token with no
// matching close token is emitted literally to the end of the text.
type Parser struct {
	open    string
	close   string
	handler Handler
}

// NewParser creates a scanner for the given delimiter pair.
func NewParser(open, close string, handler Handler) *Parser {
	return &Parser{open: open, close: close, handler: handler}
}

// Parse rewrites every delimited region of text through the handler.
func (p *Parser) Parse(text string) string {
	if text == "" {
		return ""
	}

	start := strings.Index(text, p.open)
	if start == -1 {
		return text
	}

	var builder strings.Builder

	offset := 0

	for start > -1 {
		if start > 0 && text[start-1] == '\\' {
			// Escaped open token: drop the backslash, keep the token.
			builder.WriteString(text[offset : start-1])
			builder.WriteString(p.open)
			offset = start + len(p.open)
		} else {
			builder.WriteString(text[offset:start])
			offset = start + len(p.open)

			content, end := p.scanContent(text, offset)
			if end == -1 {
				// Close token was not found.
				builder.WriteString(text[start:])
				offset = len(text)
			} else {
				builder.WriteString(p.handler.HandleToken(content))
				offset = end + len(p.close)
			}
		}

		start = indexFrom(text, p.open, offset)
	}

	builder.WriteString(text[offset:])

	return builder.String()
}

// scanContent collects the region content beginning at offset, honoring
// escaped close tokens. It returns the content and the position of the
// terminating close token, or -1 when the region never closes.
func (p *Parser) scanContent(text string, offset int) (string, int) {
	var content strings.Builder

	end := indexFrom(text, p.close, offset)
	for end > -1 {
		if end > offset && text[end-1] == '\\' {
			content.WriteString(text[offset : end-1])
			content.WriteString(p.close)
			offset = end + len(p.close)
			end = indexFrom(text, p.close, offset)

			continue
		}

		content.WriteString(text[offset:end])

		return content.String(), end
	}

	return "", -1
}

func indexFrom(text, sub string, offset int) int {
	if offset >= len(text) {
		return -1
	}

	i := strings.Index(text[offset:], sub)
	if i == -1 {
		return -1
	}

	return offset + i
}
