package questions

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/types"
)

var (
	dateRe      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	monthYearRe = regexp.MustCompile(`^\d{4}-\d{2}$`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

// PlainText strips a carrier HTML fragment down to readable text for log
// lines, error messages and CLI output. Parse failures fall back to the raw
// fragment rather than dropping the text.
func PlainText(htmlFragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlFragment))
	if err != nil {
		return strings.TrimSpace(htmlFragment)
	}
	text := doc.Text()
	return strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
}

// QuestionPlainText returns the question text with HTML stripped.
func QuestionPlainText(q types.EligibilityQuestion) string {
	return PlainText(q.QuestionText)
}
