package digest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxTopics = 5

var (
	fenceOpenRe  = regexp.MustCompile("(?m)^```(?:html)?\\s*\n?")
	fenceCloseRe = regexp.MustCompile("(?m)^```\\s*$")
	headerRe     = regexp.MustCompile(`(?m)^(#{1,3}) (.+)$`)
	boldRe       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	bulletRe     = regexp.MustCompile(`(?m)^[-*] (.+)$`)
)

// CleanMarkdown removes code fences and converts stray markdown syntax to
// HTML. Models occasionally ignore the HTML-only instruction.
func CleanMarkdown(content string) string {
	content = fenceOpenRe.ReplaceAllString(content, "")
	content = fenceCloseRe.ReplaceAllString(content, "")
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}

	// Already HTML: leave structure alone, just fix stray bold markers.
	if strings.HasPrefix(content, "<") {
		return boldRe.ReplaceAllString(content, "<strong>$1</strong>")
	}

	content = headerRe.ReplaceAllStringFunc(content, func(match string) string {
		parts := headerRe.FindStringSubmatch(match)
		level := len(parts[1])
		return fmt.Sprintf("<h%d>%s</h%d>", level, parts[2], level)
	})
	content = boldRe.ReplaceAllString(content, "<strong>$1</strong>")
	content = bulletRe.ReplaceAllString(content, "<li>$1</li>")
	return content
}

// ExtractText flattens digest HTML into plain text for the script writer.
func ExtractText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}
	doc.Find("script, style").Remove()

	var sb strings.Builder
	doc.Find("h1, h2, h3, p, li").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			sb.WriteString(text)
			sb.WriteString("\n")
		}
	})
	if sb.Len() == 0 {
		return strings.TrimSpace(doc.Text())
	}
	return strings.TrimSpace(sb.String())
}

// ExtractTopics pulls up to five headline titles for the email's podcast
// section, preferring the Top Priority list.
func ExtractTopics(html string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var topics []string
	appendTopic := func(sel *goquery.Selection) {
		if len(topics) >= maxTopics {
			return
		}
		if text := strings.TrimSpace(sel.Text()); text != "" {
			topics = append(topics, text)
		}
	}

	doc.Find("h2").EachWithBreak(func(_ int, header *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(header.Text()), "top priority") {
			return true
		}
		header.NextUntil("h2").Filter("ul").First().Find("li").Each(func(_ int, li *goquery.Selection) {
			if link := li.Find("strong a").First(); link.Length() > 0 {
				appendTopic(link)
				return
			}
			if strong := li.Find("strong").First(); strong.Length() > 0 {
				appendTopic(strong)
			}
		})
		return false
	})

	if len(topics) == 0 {
		doc.Find("li strong").Each(func(_ int, strong *goquery.Selection) {
			appendTopic(strong)
		})
	}
	return topics
}
