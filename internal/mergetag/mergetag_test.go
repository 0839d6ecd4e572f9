package mergetag

import (
	"strings"
	"testing"
)

// TestRender_ScalarAndList tests the documented greeting scenario
func TestRender_ScalarAndList(t *testing.T) {
	template := "Hello {{ name }}, items: {{ items }}"
	data := Data{
		"name":  Text("Ada"),
		"items": List("Pen", "Book"),
	}

	expected := "Hello Ada, items: <ul><li>Pen</li><li>Book</li></ul>"
	result := Render(data, template)

	if result != expected {
		t.Errorf("Render() = %q, want %q", result, expected)
	}

	plain := StripToPlainText(result)
	if plain != "Hello Ada, items: PenBook" {
		t.Errorf("StripToPlainText() = %q, want %q", plain, "Hello Ada, items: PenBook")
	}
}

// TestRender_WhitespaceTolerance tests that interior whitespace in placeholders is insignificant
func TestRender_WhitespaceTolerance(t *testing.T) {
	tests := []struct {
		name     string
		template string
	}{
		{name: "no spaces", template: "Hi {{name}}!"},
		{name: "single spaces", template: "Hi {{ name }}!"},
		{name: "uneven spaces", template: "Hi {{   name }}!"},
		{name: "tabs and newlines", template: "Hi {{\tname\n}}!"},
	}

	data := Data{"name": Text("Grace")}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Render(data, tt.template)
			if result != "Hi Grace!" {
				t.Errorf("Render() = %q, want %q", result, "Hi Grace!")
			}
		})
	}
}

// TestRender_MultipleOccurrences tests that all occurrences of placeholders are replaced
func TestRender_MultipleOccurrences(t *testing.T) {
	template := "{{ name }}, {{name}}, {{ name }}! Your name is {{  name  }}."
	data := Data{"name": Text("Charlie")}

	expected := "Charlie, Charlie, Charlie! Your name is Charlie."
	result := Render(data, template)

	if result != expected {
		t.Errorf("Render() = %q, want %q", result, expected)
	}
}

// TestRender_MissingKeyLeftVerbatim tests that placeholders without data stay as written
func TestRender_MissingKeyLeftVerbatim(t *testing.T) {
	template := "Dear {{ name }}, your plan is {{  plan }}."
	data := Data{"name": Text("Linus")}

	expected := "Dear Linus, your plan is {{  plan }}."
	result := Render(data, template)

	if result != expected {
		t.Errorf("Render() = %q, want %q", result, expected)
	}
}

// TestRender_UnusedKeysIgnored tests that keys absent from the template do not change the output
func TestRender_UnusedKeysIgnored(t *testing.T) {
	template := "<p>Hello {{ name }}</p>"

	base := Render(Data{"name": Text("Ada")}, template)
	extra := Render(Data{
		"name":    Text("Ada"),
		"company": Text("Analytical Engines"),
		"regions": List("Europe"),
	}, template)

	if base != extra {
		t.Errorf("Render() with unused keys = %q, want %q", extra, base)
	}
}

// TestRender_NoEscaping tests that scalar values are inserted as raw HTML
func TestRender_NoEscaping(t *testing.T) {
	template := "<div>{{ body }}</div>"
	data := Data{"body": Text("<strong>Tom & Jerry</strong>")}

	expected := "<div><strong>Tom & Jerry</strong></div>"
	result := Render(data, template)

	if result != expected {
		t.Errorf("Render() = %q, want %q", result, expected)
	}
}

// TestRender_DollarSignsLiteral tests that replacement text is not treated as a regexp expansion
func TestRender_DollarSignsLiteral(t *testing.T) {
	template := "Price: {{ price }}"
	data := Data{"price": Text("$1 or ${name}")}

	expected := "Price: $1 or ${name}"
	result := Render(data, template)

	if result != expected {
		t.Errorf("Render() = %q, want %q", result, expected)
	}
}

// TestRender_InsertedTextNotRescanned tests that values containing placeholders are not expanded again
func TestRender_InsertedTextNotRescanned(t *testing.T) {
	template := "{{ a }} / {{ b }}"
	data := Data{
		"a": Text("{{ b }}"),
		"b": Text("B"),
	}

	expected := "{{ b }} / B"
	for i := 0; i < 20; i++ {
		result := Render(data, template)
		if result != expected {
			t.Fatalf("Render() = %q, want %q", result, expected)
		}
	}
}

// TestRender_EmptyList tests that an empty list still renders list markup
func TestRender_EmptyList(t *testing.T) {
	result := Render(Data{"items": List()}, "Items: {{ items }}")
	if result != "Items: <ul></ul>" {
		t.Errorf("Render() = %q, want %q", result, "Items: <ul></ul>")
	}
}

// TestRender_MalformedMarkup tests that broken HTML around placeholders is preserved
func TestRender_MalformedMarkup(t *testing.T) {
	template := "<p><b>{{ name }}</i><<{{ missing }"
	data := Data{"name": Text("Ada")}

	expected := "<p><b>Ada</i><<{{ missing }"
	result := Render(data, template)

	if result != expected {
		t.Errorf("Render() = %q, want %q", result, expected)
	}
}

// TestRender_NilData tests that rendering with no data returns the template unchanged
func TestRender_NilData(t *testing.T) {
	template := "Hello {{ name }}"
	if result := Render(nil, template); result != template {
		t.Errorf("Render() = %q, want %q", result, template)
	}
}

func TestDataSetters(t *testing.T) {
	data := Data{}
	data.Set("name", "Ada")
	data.SetList("tags", []string{"a", "b"})

	if data["name"].IsList() {
		t.Error("Expected name to be a scalar")
	}
	if !data["tags"].IsList() {
		t.Error("Expected tags to be a list")
	}
	if got := strings.Join(data["tags"].Items(), ","); got != "a,b" {
		t.Errorf("Items() = %q, want %q", got, "a,b")
	}
	if data["name"].Items() != nil {
		t.Error("Expected scalar Items() to be nil")
	}
}

// TestList_CopiesInput tests that mutating the source slice does not change a built value
func TestList_CopiesInput(t *testing.T) {
	items := []string{"one", "two"}
	value := List(items...)
	items[0] = "changed"

	if value.String() != "<ul><li>one</li><li>two</li></ul>" {
		t.Errorf("String() = %q", value.String())
	}
}

func TestStripToPlainText(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{name: "line break", in: "Line1<br>Line2", expected: "Line1\nLine2"},
		{name: "self closing break", in: "Line1<br/>Line2<br />Line3", expected: "Line1\nLine2\nLine3"},
		{name: "uppercase break", in: "A<BR>B", expected: "A\nB"},
		{name: "tags removed", in: "<p>Hello <strong>world</strong></p>", expected: "Hello world"},
		{name: "entities preserved", in: "<p>Tom &amp; Jerry</p>", expected: "Tom &amp; Jerry"},
		{name: "attributes removed with tag", in: `<a href="https://example.com">link</a>`, expected: "link"},
		{name: "plain text untouched", in: "no tags here", expected: "no tags here"},
		{name: "empty", in: "", expected: ""},
		{name: "empty tag removed", in: "<p>x<></p>", expected: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := StripToPlainText(tt.in)
			if result != tt.expected {
				t.Errorf("StripToPlainText(%q) = %q, want %q", tt.in, result, tt.expected)
			}
		})
	}
}

// TestRenderThenStrip_EmptyTag tests that an empty <> in a template does not survive stripping
func TestRenderThenStrip_EmptyTag(t *testing.T) {
	result := StripToPlainText(Render(Data{"a": Text("x")}, "<p>{{ a }}<></p>"))
	if result != "x" {
		t.Errorf("StripToPlainText(Render()) = %q, want %q", result, "x")
	}
}

// TestStripToPlainText_Idempotent tests that already-plain input is returned unchanged
func TestStripToPlainText_Idempotent(t *testing.T) {
	inputs := []string{
		"Hello Ada, items: PenBook",
		"multi\nline\ntext",
		"math: 3 > 2 and 1 < 2",
	}

	for _, in := range inputs {
		once := StripToPlainText(in)
		if once != in {
			t.Errorf("StripToPlainText(%q) = %q, want input unchanged", in, once)
		}
		if twice := StripToPlainText(once); twice != once {
			t.Errorf("StripToPlainText not idempotent: %q then %q", once, twice)
		}
	}
}

// TestRenderThenStrip_NoTagsLeft tests that rendered documents lose every tag once stripped
func TestRenderThenStrip_NoTagsLeft(t *testing.T) {
	template := `<html><body><h1>{{ title }}</h1><p>{{ message }}</p>{{ items }}<br>{{ missing }}</body></html>`
	data := Data{
		"title":   Text("New lead"),
		"message": Text("Call me<br/>tomorrow"),
		"items":   List("Invoicing", "Payroll"),
	}

	plain := StripToPlainText(Render(data, template))
	leftover := strings.ReplaceAll(plain, "{{ missing }}", "")

	if strings.ContainsAny(leftover, "<>") {
		t.Errorf("Expected no angle brackets after stripping, got %q", plain)
	}

	expected := "New leadCall me\ntomorrowInvoicingPayroll\n{{ missing }}"
	if plain != expected {
		t.Errorf("StripToPlainText(Render()) = %q, want %q", plain, expected)
	}
}
