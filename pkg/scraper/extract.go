package scraper

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
)

// ExtractFromDocument returns the plain text of a PDF, pages concatenated in
// order. Image-only pages contribute nothing; unreadable input yields "".
func ExtractFromDocument(data []byte) (text string) {
	// The PDF reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()

	if len(data) == 0 {
		return ""
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(content)
	}

	return strings.TrimSpace(b.String())
}

// ExtractFromMarkup joins the text of every <p> element in document order
// with single spaces.
func ExtractFromMarkup(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return ""
	}

	var paragraphs []string
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		if text := cleanContent(sel.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})

	return strings.Join(paragraphs, " ")
}

func cleanContent(content string) string {
	// Remove extra whitespace
	content = strings.Join(strings.Fields(content), " ")

	// Remove common noise
	noisePatterns := []string{
		"Cookie Policy",
		"Accept Cookies",
		"Accept All Cookies",
	}

	for _, pattern := range noisePatterns {
		content = strings.ReplaceAll(content, pattern, "")
	}

	return strings.TrimSpace(content)
}
