package services

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/jgl02/sharedlist-scraper/models"
	"github.com/jgl02/sharedlist-scraper/utils"
)

// ReportService assembles the machine-readable run report and prints the
// human summary at the end of a harvest.
type ReportService struct {
	logger *utils.Logger
}

func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger}
}

// Build wraps the harvested places in the envelope a dispatching workflow
// consumes. On failure the envelope carries the error message and an empty
// data array; the places slice is only trusted when harvestErr is nil.
func (s *ReportService) Build(places []models.Place, listURL, city string, elapsed time.Duration, harvestErr error) *models.RunReport {
	report := &models.RunReport{
		Data:          places,
		Count:         len(places),
		ExecutionTime: round2(elapsed.Seconds()),
		URL:           listURL,
		City:          city,
	}

	if harvestErr != nil {
		report.Data = []models.Place{}
		report.Count = 0
		report.Message = fmt.Sprintf("Error: %v", harvestErr)
		return report
	}

	if report.Data == nil {
		report.Data = []models.Place{}
	}
	report.Success = true
	report.Message = fmt.Sprintf("Successfully scraped %d places", len(places))
	return report
}

// harvestStats holds the aggregates the summary prints.
type harvestStats struct {
	total      int
	rated      int
	noted      int
	avgRating  float64
	topRated   []models.Place
	byCategory map[string]int
}

func summarize(places []models.Place) harvestStats {
	stats := harvestStats{
		total:      len(places),
		byCategory: make(map[string]int),
	}

	var ratingTotal float64
	for _, p := range places {
		if p.Rating != nil {
			stats.rated++
			ratingTotal += *p.Rating
			stats.topRated = append(stats.topRated, p)
		}
		if p.Note != "" {
			stats.noted++
		}
		if p.Category != "" {
			stats.byCategory[p.Category]++
		}
	}

	if stats.rated > 0 {
		stats.avgRating = round2(ratingTotal / float64(stats.rated))
	}

	// Top 5 by rating, review count breaking ties
	sort.SliceStable(stats.topRated, func(i, j int) bool {
		a, b := stats.topRated[i], stats.topRated[j]
		if *a.Rating != *b.Rating {
			return *a.Rating > *b.Rating
		}
		return reviewsOf(a) > reviewsOf(b)
	})
	if len(stats.topRated) > 5 {
		stats.topRated = stats.topRated[:5]
	}

	return stats
}

func reviewsOf(p models.Place) int {
	if p.ReviewCount == nil {
		return 0
	}
	return *p.ReviewCount
}

// Print renders the summary block to stderr. Stdout stays clean for the
// JSON run report.
func (s *ReportService) Print(places []models.Place) {
	stats := summarize(places)

	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(os.Stderr, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(os.Stderr, "\033[1;35m  📍 SHARED LIST HARVEST SUMMARY\033[0m\n")
	fmt.Fprintf(os.Stderr, "\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Fprintf(os.Stderr, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(os.Stderr, "  %s\n", thin)
	fmt.Fprintf(os.Stderr, "  Unique places : \033[1m%d\033[0m\n", stats.total)
	fmt.Fprintf(os.Stderr, "  With notes    : \033[1m%d\033[0m\n", stats.noted)
	if stats.rated > 0 {
		fmt.Fprintf(os.Stderr, "  Rated         : \033[1m%d\033[0m (avg \033[1;32m%.2f ★\033[0m)\n",
			stats.rated, stats.avgRating)
	} else {
		fmt.Fprintf(os.Stderr, "  Rated         : \033[1m0\033[0m\n")
	}
	fmt.Fprintln(os.Stderr)

	// Top rated
	fmt.Fprintf(os.Stderr, "\033[1;33m  Top Rated Places\033[0m\n")
	fmt.Fprintf(os.Stderr, "  %s\n", thin)
	if len(stats.topRated) == 0 {
		fmt.Fprintf(os.Stderr, "  No rated places found\n")
	} else {
		for i, p := range stats.topRated {
			fmt.Fprintf(os.Stderr, "  \033[1m%d.\033[0m %-40s \033[1;32m%.1f ★\033[0m (%d reviews)\n",
				i+1, truncate(p.Name, 38), *p.Rating, reviewsOf(p))
		}
	}
	fmt.Fprintln(os.Stderr)

	// Places by category
	fmt.Fprintf(os.Stderr, "\033[1;33m  Places by Category\033[0m\n")
	fmt.Fprintf(os.Stderr, "  %s\n", thin)
	if len(stats.byCategory) == 0 {
		fmt.Fprintf(os.Stderr, "  No category data\n")
	} else {
		type catCount struct {
			cat   string
			count int
		}
		var cats []catCount
		for cat, cnt := range stats.byCategory {
			cats = append(cats, catCount{cat, cnt})
		}
		sort.Slice(cats, func(i, j int) bool {
			if cats[i].count != cats[j].count {
				return cats[i].count > cats[j].count
			}
			return cats[i].cat < cats[j].cat
		})
		for _, cc := range cats {
			bar := strings.Repeat("█", cc.count)
			fmt.Fprintf(os.Stderr, "  %-30s %s (%d)\n", truncate(cc.cat, 28), bar, cc.count)
		}
	}

	fmt.Fprintf(os.Stderr, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
