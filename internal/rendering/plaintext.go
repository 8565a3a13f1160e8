package rendering

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText derives a readable text version of a rendered report, used as
// the text/plain part of the results email.
func PlainText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", &RenderError{Format: "text/plain", Cause: err}
	}

	var blocks []string
	doc.Find("body").Find("h1, h2, h3, h4, p, li, dt, dd").Each(func(_ int, s *goquery.Selection) {
		// Paragraphs nested in a list item are emitted with the item.
		if goquery.NodeName(s) == "p" && s.ParentsFiltered("li").Length() > 0 {
			return
		}
		text := collapseSpace(textWithBreaks(s))
		if text == "" {
			return
		}
		switch goquery.NodeName(s) {
		case "h1", "h2":
			blocks = append(blocks, "", strings.ToUpper(text), strings.Repeat("=", len([]rune(text))))
		case "h3", "h4":
			blocks = append(blocks, "", text)
		case "li":
			blocks = append(blocks, "- "+text)
		case "dd":
			blocks = append(blocks, "  "+text)
		default:
			blocks = append(blocks, text)
		}
	})

	return strings.TrimSpace(strings.Join(blocks, "\n")) + "\n", nil
}

// textWithBreaks returns the text of s, keeping <br> as newlines.
func textWithBreaks(s *goquery.Selection) string {
	clone := s.Clone()
	clone.Find("br").ReplaceWithHtml("\n")
	return clone.Text()
}

// collapseSpace trims each line and squeezes runs of whitespace within it.
func collapseSpace(text string) string {
	rows := strings.Split(text, "\n")
	out := rows[:0]
	for _, row := range rows {
		if row = strings.Join(strings.Fields(row), " "); row != "" {
			out = append(out, row)
		}
	}
	return strings.Join(out, "\n")
}
