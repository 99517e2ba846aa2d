package pkgdocs

import (
	"fmt"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// SystemMessage is a diagnostic the renderer embedded in its HTML output.
type SystemMessage struct {
	Level    string // INFO, WARNING, ERROR, SEVERE
	Severity int    // 1 (info) to 4 (severe)
	Source   string
	Line     int
	Text     string
}

func (m SystemMessage) String() string {
	loc := m.Source
	if m.Line > 0 {
		loc = fmt.Sprintf("%s:%d", m.Source, m.Line)
	}
	return fmt.Sprintf("%s/%d %s: %s", m.Level, m.Severity, loc, m.Text)
}

// Matches "System Message: WARNING/2 (README.rst, line 7)".
var systemMessageTitle = regexp.MustCompile(`System Message:\s*(\w+)/(\d)\s*\(([^,)]*)(?:,\s*line\s+(\d+))?\)`)

// ParseSystemMessages extracts the system messages from rendered HTML.
func ParseSystemMessages(r io.Reader) ([]SystemMessage, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing rendered HTML: %w", err)
	}

	var msgs []SystemMessage
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "system-message") {
			if msg, ok := systemMessage(n); ok {
				msgs = append(msgs, msg)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return msgs, nil
}

// systemMessage reads the title paragraph and the body of one message node.
func systemMessage(n *html.Node) (SystemMessage, bool) {
	var msg SystemMessage
	var body []string
	found := false

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		text := collapseSpace(textContent(c))
		if hasClass(c, "system-message-title") {
			m := systemMessageTitle.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			found = true
			msg.Level = m[1]
			msg.Severity, _ = strconv.Atoi(m[2])
			msg.Source = strings.TrimSpace(m[3])
			if m[4] != "" {
				msg.Line, _ = strconv.Atoi(m[4])
			}
			continue
		}
		if text != "" {
			body = append(body, text)
		}
	}

	msg.Text = strings.Join(body, " ")
	return msg, found
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key == "class" && slices.Contains(strings.Fields(attr.Val), class) {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
