package meta

import (
	"fmt"

	"metanav/token"
)

// Interpolate substitutes ${path} placeholders in text with values read
// from obj's object graph. A placeholder whose path is absent or
// unreadable stays in the output verbatim, so partially populated
// graphs degrade visibly instead of silently dropping text.
func Interpolate(text string, obj any) string {
	o := For(obj)

	parser := token.NewParser("${", "}", token.HandlerFunc(func(content string) string {
		v, err := o.GetValue(content)
		if err != nil || v == nil {
			return "${" + content + "}"
		}
		return fmt.Sprint(v)
	}))
	return parser.Parse(text)
}
