package gmaps

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"github.com/jgl02/sharedlist-scraper/models"
	"github.com/jgl02/sharedlist-scraper/utils"
)

var (
	// ratingWithReviewsRe captures a combined "4.5(1,234)" detail fragment.
	ratingWithReviewsRe = regexp.MustCompile(`^([0-5](?:[.,]\d{1,2})?)\s*\(([\d.,\s]+)\)`)

	// latLngRe captures the "@lat,lng" viewport token of a detail URL.
	latLngRe = regexp.MustCompile(`@(-?\d+\.?\d*),(-?\d+\.?\d*)`)

	// nonDigitRe strips locale separators and parentheses from review counts.
	nonDigitRe = regexp.MustCompile(`\D`)
)

// extractor turns captured list snapshots into Place records. It holds the
// list URL for resolving relative links and the city tag applied to every
// record from this run.
type extractor struct {
	logger  *utils.Logger
	baseURL *url.URL
	city    string
}

func newExtractor(logger *utils.Logger, listURL, city string) *extractor {
	base, err := url.Parse(listURL)
	if err != nil {
		base = nil
	}
	return &extractor{logger: logger, baseURL: base, city: city}
}

// extract parses one snapshot. Containers are read independently: a missing
// or unparsable field degrades to its absent state, and only a container
// with no parsable name drops the whole record. Running extract twice on the
// same snapshot yields identical records in identical order.
func (e *extractor) extract(html string) ([]models.Place, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}

	containers := doc.Find(itemSelector)
	places := make([]models.Place, 0, containers.Length())

	containers.Each(func(i int, sel *goquery.Selection) {
		place, ok := e.extractOne(sel)
		if !ok {
			e.logger.Debug("[extract] Container %d has no parsable name, dropped", i)
			return
		}
		places = append(places, place)
	})

	return places, nil
}

// extractOne reads a single place container. The boolean reports whether the
// container yielded a usable record.
func (e *extractor) extractOne(sel *goquery.Selection) (models.Place, bool) {
	place := models.Place{City: e.city}

	name := textOf(sel, nameSelector)
	if name == "" {
		name = textOf(sel, nameFallbackSelector)
	}
	if name == "" {
		return models.Place{}, false
	}
	place.Name = name

	link := sel.Find(linkSelector).First()
	if link.Length() == 0 {
		link = sel.Find("a[href]").First()
	}
	if href, ok := link.Attr("href"); ok {
		place.URL = e.resolveURL(href)
		if lat, lng, ok := parseLatLng(place.URL); ok {
			place.Lat = &lat
			place.Lng = &lng
		}
	}

	if txt := textOf(sel, ratingSelector); txt != "" {
		if r, ok := e.parseRating(txt); ok {
			place.Rating = &r
		}
	}
	if txt := textOf(sel, reviewsSelector); txt != "" {
		if n, ok := e.parseReviewCount(txt); ok {
			place.ReviewCount = &n
		}
	}

	sel.Find(detailSelector).Each(func(_ int, line *goquery.Selection) {
		e.applyDetailLine(&place, cleanText(line.Text()))
	})

	if note := cleanText(sel.Find(noteSelector).First().Text()); note != "" {
		place.Note = note
	}

	return place, true
}

// applyDetailLine classifies the middle-dot separated fragments of one
// detail line. Detail divs nest on the live page, so the same text may come
// through more than once; every field keeps its first value.
func (e *extractor) applyDetailLine(place *models.Place, text string) {
	if text == "" {
		return
	}

	for _, raw := range strings.Split(text, "·") {
		seg := cleanText(raw)
		if len(seg) < 2 {
			continue
		}

		if m := ratingWithReviewsRe.FindStringSubmatch(seg); m != nil {
			if place.Rating == nil {
				if r, ok := e.parseRating(m[1]); ok {
					place.Rating = &r
				}
			}
			if place.ReviewCount == nil {
				if n, ok := e.parseReviewCount(m[2]); ok {
					place.ReviewCount = &n
				}
			}
			continue
		}

		// Street addresses carry digits or run long; categories are short
		// words like "Ramen restaurant". Price markers such as "$$" carry
		// neither digits nor letters and classify as nothing.
		if hasDigit(seg) || len(seg) > 20 {
			if place.Address == "" {
				place.Address = seg
			}
			continue
		}
		if place.Category == "" && len(seg) < 30 && hasLetter(seg) {
			place.Category = seg
		}
	}
}

// parseRating parses a 0.0 to 5.0 star value, accepting a comma decimal
// separator from non-English locales. Out-of-range values are treated as
// absent rather than clamped.
func (e *extractor) parseRating(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		e.logger.Debug("[extract] Unparsable rating %q: %v", raw, err)
		return 0, false
	}
	if val < 0 || val > 5 {
		e.logger.Debug("[extract] Rating %v out of range, treated as absent", val)
		return 0, false
	}
	return val, true
}

// parseReviewCount strips everything but digits from fragments such as
// "(2,113)" or "1.234".
func (e *extractor) parseReviewCount(raw string) (int, bool) {
	cleaned := nonDigitRe.ReplaceAllString(raw, "")
	if cleaned == "" {
		e.logger.Debug("[extract] Unparsable review count %q", raw)
		return 0, false
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		e.logger.Debug("[extract] Review count %q overflows: %v", raw, err)
		return 0, false
	}
	return n, true
}

// parseLatLng pulls coordinates from the @lat,lng token Google embeds in
// detail URLs.
func parseLatLng(u string) (lat, lng float64, ok bool) {
	m := latLngRe.FindStringSubmatch(u)
	if m == nil {
		return 0, 0, false
	}
	lat, err1 := strconv.ParseFloat(m[1], 64)
	lng, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return lat, lng, true
}

// resolveURL absolutizes a container link against the list URL. Anything
// that cannot be resolved to an absolute URL degrades to absent.
func (e *extractor) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		e.logger.Debug("[extract] Unparsable href %q: %v", href, err)
		return ""
	}
	if ref.IsAbs() {
		return href
	}
	if e.baseURL == nil {
		return ""
	}
	return e.baseURL.ResolveReference(ref).String()
}

func textOf(sel *goquery.Selection, selector string) string {
	return cleanText(sel.Find(selector).First().Text())
}

// cleanText trims and collapses all internal whitespace runs to single
// spaces.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func hasDigit(s string) bool {
	return strings.ContainsFunc(s, unicode.IsDigit)
}

func hasLetter(s string) bool {
	return strings.ContainsFunc(s, unicode.IsLetter)
}
