package mergetag

import (
	"regexp"
	"strings"
)

// placeholderPattern matches {{ name }} with any whitespace around the name.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)

var (
	lineBreakPattern = regexp.MustCompile(`(?i)<br\s*/?>`)
	tagPattern       = regexp.MustCompile(`<[^>]*>`)
)

// Value is a merge value: either a plain text scalar or a list of items.
type Value struct {
	text  string
	items []string
	list  bool
}

// Text returns a scalar value inserted into the template as-is.
func Text(s string) Value {
	return Value{text: s}
}

// List returns a sequence value rendered as an HTML unordered list.
func List(items ...string) Value {
	copied := make([]string, len(items))
	copy(copied, items)
	return Value{items: copied, list: true}
}

// IsList reports whether v was built with List.
func (v Value) IsList() bool {
	return v.list
}

// Items returns the list items, or nil for a scalar.
func (v Value) Items() []string {
	if !v.list {
		return nil
	}
	return append([]string(nil), v.items...)
}

// String returns the text that replaces the placeholder.
func (v Value) String() string {
	if !v.list {
		return v.text
	}

	var b strings.Builder
	b.WriteString("<ul>")
	for _, item := range v.items {
		b.WriteString("<li>")
		b.WriteString(item)
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}

// Data maps placeholder names to their values.
type Data map[string]Value

// Set stores a scalar value under key.
func (d Data) Set(key, text string) {
	d[key] = Text(text)
}

// SetList stores a list value under key.
func (d Data) SetList(key string, items []string) {
	d[key] = List(items...)
}

// Render replaces every {{ key }} placeholder in template whose key is present in data.
// Scalars are inserted verbatim without HTML escaping, lists become <ul><li>..</li></ul>.
// Placeholders with no matching key are left untouched. Inserted text is not re-scanned.
func Render(data Data, template string) string {
	if len(data) == 0 {
		return template
	}

	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		sub := placeholderPattern.FindStringSubmatch(match)
		value, ok := data[sub[1]]
		if !ok {
			return match
		}
		return value.String()
	})
}

// StripToPlainText turns rendered HTML into a plaintext fallback: line-break tags become
// newlines and every other tag is dropped. Entities are left encoded.
func StripToPlainText(html string) string {
	text := lineBreakPattern.ReplaceAllString(html, "\n")
	return tagPattern.ReplaceAllString(text, "")
}
