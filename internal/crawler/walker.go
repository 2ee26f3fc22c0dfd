package crawler

import (
	"strings"

	"github.com/v0xg/densitymap/internal/densitymap"
)

const (
	maxElements = 2000 // walker stops collecting after this many elements
	maxLabel    = 60   // interactive label length, ellipsis included
	maxText     = 80   // direct text kept for reverse lookup
	maxClasses  = 4
)

// walkerJS collects every visible element clipped to the viewport. It only
// reports raw hints; classification happens in densitymap.
const walkerJS = `(cap, maxLabel) => {
	const vw = window.innerWidth, vh = window.innerHeight;
	const all = document.querySelectorAll('*');
	const elements = [];
	const attrNames = ['aria-label', 'aria-pressed', 'aria-expanded', 'data-e2e', 'disabled'];

	function depthOf(el) {
		let d = 0;
		for (let p = el; p; p = p.parentElement) d++;
		return d;
	}

	function directText(el) {
		let txt = '';
		for (const c of el.childNodes) {
			if (c.nodeType === 3) txt += c.textContent;
		}
		return txt.replace(/\s+/g, ' ').trim();
	}

	for (let i = 0; i < all.length && elements.length < cap; i++) {
		const el = all[i];
		const st = window.getComputedStyle(el);
		if (st.display === 'none' || st.visibility === 'hidden') continue;
		if (parseFloat(st.opacity) === 0) continue;

		const r = el.getBoundingClientRect();
		if (r.width <= 0 || r.height <= 0) continue;
		if (r.right < 0 || r.bottom < 0 || r.left > vw || r.top > vh) continue;

		const x = Math.max(0, r.left), y = Math.max(0, r.top);
		const w = Math.min(r.right, vw) - x, h = Math.min(r.bottom, vh) - y;
		if (w <= 0 || h <= 0) continue;

		const tag = el.tagName.toLowerCase();
		const role = el.getAttribute('role') || '';
		const inputType = tag === 'input' ? (el.type || 'text') : '';
		const hasHref = tag === 'a' && el.hasAttribute('href');
		const href = hasHref ? el.getAttribute('href') : '';
		const editable = el.isContentEditable === true;
		const interactive = tag === 'button' || role === 'button' || role === 'textbox' ||
			tag === 'input' || tag === 'textarea' || tag === 'select' || editable ||
			hasHref;
		const text = directText(el);

		const entry = {
			tag: tag,
			x: Math.round(x), y: Math.round(y), w: Math.round(w), h: Math.round(h),
			textLen: text.length,
			depth: depthOf(el),
		};
		if (text) entry.text = text.substring(0, 80);
		if (interactive) entry.interactive = true;
		if (role) entry.role = role;
		if (hasHref) entry.hasHref = true;
		if (href) entry.href = href.substring(0, 120);
		if (inputType) entry.inputType = inputType;
		if (editable) entry.editable = true;
		if (el.id) entry.id = el.id;
		if (typeof el.className === 'string' && el.className.trim()) {
			entry.classes = el.className.trim().split(/\s+/);
		}

		const attrs = {};
		for (const name of attrNames) {
			const v = el.getAttribute(name);
			if (v !== null) attrs[name] = v.substring(0, 80);
		}
		if (Object.keys(attrs).length) entry.attrs = attrs;

		if (st.cursor && st.cursor !== 'auto') entry.cursor = st.cursor;
		const bg = st.backgroundColor;
		if (bg && bg !== 'rgba(0, 0, 0, 0)' && bg !== 'transparent') entry.bg = bg;
		if (st.color) entry.color = st.color;

		if (interactive) {
			let label = el.getAttribute('aria-label') ||
				(el.textContent || '').trim().substring(0, maxLabel) ||
				el.title || el.placeholder || '';
			label = label.replace(/\s+/g, ' ').trim();
			if (label.length > maxLabel) label = label.substring(0, maxLabel - 3) + '...';
			if (label) entry.label = label;
		}

		elements.push(entry);
	}

	return {vw: vw, vh: vh, title: document.title, url: window.location.href, elements: elements};
}`

// walkResult mirrors the object returned by walkerJS
type walkResult struct {
	VW       int           `json:"vw"`
	VH       int           `json:"vh"`
	Title    string        `json:"title"`
	URL      string        `json:"url"`
	Elements []walkElement `json:"elements"`
}

type walkElement struct {
	Tag         string            `json:"tag"`
	X           int               `json:"x"`
	Y           int               `json:"y"`
	W           int               `json:"w"`
	H           int               `json:"h"`
	TextLen     int               `json:"textLen"`
	Text        string            `json:"text"`
	Depth       int               `json:"depth"`
	Interactive bool              `json:"interactive"`
	Role        string            `json:"role"`
	HasHref     bool              `json:"hasHref"`
	Href        string            `json:"href"`
	InputType   string            `json:"inputType"`
	Editable    bool              `json:"editable"`
	ID          string            `json:"id"`
	Classes     []string          `json:"classes"`
	Attrs       map[string]string `json:"attrs"`
	Cursor      string            `json:"cursor"`
	Background  string            `json:"bg"`
	Color       string            `json:"color"`
	Label       string            `json:"label"`
}

// snapshot converts the walker output. Elements are clamped to the
// viewport again since rounding can push an edge one pixel past it.
func (w walkResult) snapshot() *densitymap.Snapshot {
	s := &densitymap.Snapshot{
		Title:    w.Title,
		URL:      w.URL,
		Viewport: densitymap.Viewport{Width: w.VW, Height: w.VH},
		Nested:   len(w.Elements) > 0,
	}
	for _, e := range w.Elements {
		rect := clampRect(densitymap.Rect{X: e.X, Y: e.Y, W: e.W, H: e.H}, w.VW, w.VH)
		if rect.Empty() {
			continue
		}
		if e.Depth <= 0 {
			s.Nested = false
		}
		classes := e.Classes
		if len(classes) > maxClasses {
			classes = classes[:maxClasses]
		}
		s.Elements = append(s.Elements, densitymap.Element{
			Tag:             e.Tag,
			Rect:            rect,
			TextLen:         e.TextLen,
			Text:            truncate(e.Text, maxText),
			Interactive:     e.Interactive,
			Role:            e.Role,
			HasHref:         e.HasHref,
			Href:            e.Href,
			InputType:       e.InputType,
			ContentEditable: e.Editable,
			Label:           e.Label,
			ID:              e.ID,
			Classes:         classes,
			Attrs:           e.Attrs,
			Style:           densitymap.Style{Cursor: e.Cursor, Background: e.Background, Color: e.Color},
			Depth:           e.Depth,
		})
	}
	return s
}

func clampRect(r densitymap.Rect, vw, vh int) densitymap.Rect {
	x0, y0 := max(r.X, 0), max(r.Y, 0)
	x1, y1 := min(r.X+r.W, vw), min(r.Y+r.H, vh)
	return densitymap.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > n {
		return string(r[:n])
	}
	return s
}
