package densitymap

import "strings"

// Category is an element's display category. Lower values win a cell.
type Category int

const (
	Button Category = iota
	Input
	Link
	Media
	Text
	Plain
)

// textThreshold is the direct text length above which a non-interactive
// element counts as Text.
const textThreshold = 20

var categoryNames = [...]string{"button", "input", "link", "media", "text", "plain"}

func (c Category) String() string {
	if c < Button || c > Plain {
		return "unknown"
	}
	return categoryNames[c]
}

// Outranks reports whether c takes display priority over o.
func (c Category) Outranks(o Category) bool {
	return c < o
}

// Typed reports whether the category renders as a letter rather than a
// density symbol.
func (c Category) Typed() bool {
	return c >= Button && c < Plain
}

// Letter is the single-character code used in the ASCII grid and listings.
func (c Category) Letter() byte {
	switch c {
	case Button:
		return 'B'
	case Input:
		return 'F'
	case Link:
		return 'L'
	case Media:
		return 'I'
	case Text:
		return 'T'
	}
	return '?'
}

// rule matches elements belonging to one category.
type rule struct {
	category Category
	match    func(Element) bool
}

// rules is ordered by priority; the first match classifies the element.
// A new category only needs an entry at its rank here.
var rules = []rule{
	{Button, isButton},
	{Input, isInput},
	{Link, isLink},
	{Media, isMedia},
	{Text, isText},
}

// Classify assigns the element its display category.
func Classify(el Element) Category {
	for _, r := range rules {
		if r.match(el) {
			return r.category
		}
	}
	return Plain
}

// IsInteractive reports whether the element belongs in the interactive index:
// only buttons, inputs and links, so every listing key carries a category
// letter. The walker's Interactive flag is not consulted.
func IsInteractive(el Element) bool {
	switch Classify(el) {
	case Button, Input, Link:
		return true
	}
	return false
}

func isButton(el Element) bool {
	tag := strings.ToLower(el.Tag)
	if tag == "button" || strings.EqualFold(el.Role, "button") {
		return true
	}
	if tag != "input" {
		return false
	}
	switch strings.ToLower(el.InputType) {
	case "button", "submit", "reset":
		return true
	}
	return false
}

func isInput(el Element) bool {
	switch strings.ToLower(el.Tag) {
	case "input", "textarea", "select":
		return true
	}
	switch strings.ToLower(el.Role) {
	case "textbox", "searchbox", "combobox":
		return true
	}
	return el.ContentEditable
}

func isLink(el Element) bool {
	return strings.EqualFold(el.Tag, "a") && (el.HasHref || el.Href != "")
}

func isMedia(el Element) bool {
	switch strings.ToLower(el.Tag) {
	case "img", "video", "canvas", "svg", "picture":
		return true
	}
	return false
}

func isText(el Element) bool {
	return !el.Interactive && el.TextLen > textThreshold
}
