package olx

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/user/property-monitor/internal/entity"
)

var (
	digitsRe = regexp.MustCompile(`\d+`)
	areaRe   = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*м²`)
	roomsRe  = regexp.MustCompile(`(\d+)\s*кімнат`)
	floorRe  = regexp.MustCompile(`(?:поверх|Поверх)[:\s]*(\d+)`)
	adIDRe   = regexp.MustCompile(`-ID([A-Za-z0-9]+)\.html`)
	streetRe = regexp.MustCompile(`вул\.?\s*([^,]+)`)
)

// ExtractListings parses rendered board HTML into raw listing records and
// reports whether a further page is advertised by the pagination widget.
func ExtractListings(htmlContent string) ([]entity.RawListing, bool, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, false, err
	}

	var listings []entity.RawListing
	doc.Find(`div[data-cy="l-card"]`).Each(func(i int, s *goquery.Selection) {
		raw, ok := extractCard(s)
		if ok {
			listings = append(listings, raw)
		}
	})

	hasNext := doc.Find(`a[data-cy="pagination-forward"]`).Length() > 0
	return listings, hasNext, nil
}

func extractCard(s *goquery.Selection) (entity.RawListing, bool) {
	var raw entity.RawListing

	link := s.Find("a").First()
	href, _ := link.Attr("href")
	if href == "" {
		return raw, false
	}
	if strings.HasPrefix(href, "/") {
		href = "https://www.olx.ua" + href
	}
	raw.URL = href

	raw.ExternalID, _ = s.Attr("id")
	if raw.ExternalID == "" {
		if m := adIDRe.FindStringSubmatch(href); m != nil {
			raw.ExternalID = m[1]
		}
	}
	if raw.ExternalID == "" {
		return raw, false
	}

	raw.Title = strings.TrimSpace(s.Find("h6, h4").First().Text())
	if raw.Title == "" {
		return raw, false
	}

	priceText := s.Find(`p[data-testid="ad-price"]`).First().Text()
	raw.Price = parsePrice(priceText)

	locationText := strings.TrimSpace(s.Find(`p[data-testid="location-date"]`).First().Text())
	raw.Street = parseStreet(locationText)

	detailText := strings.TrimSpace(s.Text())
	if m := areaRe.FindStringSubmatch(detailText); m != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64); err == nil {
			raw.Area = v
		}
	}
	if m := roomsRe.FindStringSubmatch(detailText); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			raw.Rooms = &v
		}
	}
	if m := floorRe.FindStringSubmatch(detailText); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			raw.Floor = &v
		}
	}

	// The board labels agency posts; absence of the label means owner-posted.
	raw.IsOwner = !strings.Contains(detailText, "Бізнес")

	return raw, true
}

// parsePrice keeps the digits of a price label like "48 000 $". Spaces inside
// the number are thousands separators.
func parsePrice(text string) int64 {
	joined := strings.Join(digitsRe.FindAllString(text, -1), "")
	if joined == "" {
		return 0
	}
	v, err := strconv.ParseInt(joined, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseStreet pulls the street name out of a location label like
// "Івано-Франківськ, вул. Галицька - Сьогодні о 12:01".
func parseStreet(text string) string {
	m := streetRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	street := strings.TrimSpace(m[1])
	if i := strings.Index(street, " - "); i >= 0 {
		street = strings.TrimSpace(street[:i])
	}
	return street
}
