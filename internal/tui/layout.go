package tui

import "strings"

type pageLayout struct {
	windowWidth  int
	windowHeight int
	sidebarWidth int
	mainWidth    int
	viewerHeight int
	chatHeight   int
}

func newPageLayout() pageLayout {
	return pageLayout{
		sidebarWidth: sidebarWidth,
		mainWidth:    80,
		viewerHeight: 18,
		chatHeight:   10,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height

	l.sidebarWidth = sidebarWidth
	main := width - l.sidebarWidth - panelGutterWidth
	if main < minViewerWidth {
		// Narrow terminals trade sidebar space for the viewer.
		l.sidebarWidth = width / 4
		if l.sidebarWidth < 14 {
			l.sidebarWidth = 14
		}
		main = width - l.sidebarWidth - panelGutterWidth
		if main < minViewerWidth {
			main = minViewerWidth
		}
	}
	l.mainWidth = main

	// Header, composer, help line, footer, and panel borders.
	const chrome = 8
	usable := height - chrome
	if usable < 12 {
		usable = 12
	}
	l.chatHeight = usable / 3
	if l.chatHeight < 6 {
		l.chatHeight = 6
	}
	l.viewerHeight = usable - l.chatHeight
	if l.viewerHeight < 6 {
		l.viewerHeight = 6
	}
}

type contentBuilder struct {
	builder strings.Builder
	lines   int
}

func (cb *contentBuilder) WriteString(s string) {
	cb.builder.WriteString(s)
	cb.lines += strings.Count(s, "\n")
}

func (cb *contentBuilder) WriteRune(r rune) {
	cb.builder.WriteRune(r)
	if r == '\n' {
		cb.lines++
	}
}

func (cb *contentBuilder) String() string {
	return cb.builder.String()
}

func (cb *contentBuilder) Line() int {
	return cb.lines
}

func indentMultiline(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func previewText(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
