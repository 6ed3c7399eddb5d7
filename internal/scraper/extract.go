package scraper

import (
	"regexp"
	"strings"

	"vahan-rc-bot/internal/models"

	"github.com/PuerkitoBio/goquery"
)

var innerWhitespace = regexp.MustCompile(`\s+`)

// Extract reads every known label from a parsed RC search page.
//
// A label is a span whose text equals the label. Its value is the first
// paragraph inside the nearest enclosing div.
func Extract(doc *goquery.Document, plate string) models.VehicleRecord {
	record := models.NewVehicleRecord(plate)
	for _, label := range models.KnownLabels {
		record.Set(label, findValue(doc.Selection, label))
	}
	return record
}

func findValue(root *goquery.Selection, label string) string {
	span := root.Find("span").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.TrimSpace(s.Text()) == label
	}).First()
	if span.Length() == 0 {
		return ""
	}

	parent := span.ParentsFiltered("div").First()
	if parent.Length() == 0 {
		return ""
	}

	p := parent.Find("p").First()
	if p.Length() == 0 {
		return ""
	}
	return cleanText(p.Text())
}

func cleanText(s string) string {
	return innerWhitespace.ReplaceAllString(strings.TrimSpace(s), " ")
}
