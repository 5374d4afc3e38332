package sources

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hopelouisville/dashboard/internal/domain"
	"github.com/hopelouisville/dashboard/internal/domain/dto"
	"github.com/hopelouisville/dashboard/internal/pkg/constants"
)

type CoCReportConfig struct {
	HTTPConfig
	URL string
}

// CoCReport scrapes the PIT history table published with the Continuum of Care's annual report.
type CoCReport struct {
	cfg   CoCReportConfig
	fetch *fetcher
}

func NewCoCReport(cfg CoCReportConfig) *CoCReport {
	return &CoCReport{cfg: cfg, fetch: newFetcher(cfg.HTTPConfig, nil)}
}

func (c *CoCReport) Name() string {
	return constants.SourceCoCReport
}

func (c *CoCReport) Historical(ctx context.Context) domain.SourceResult[[]domain.HistoricalPoint] {
	body, err := c.fetch.get(ctx, c.cfg.URL, nil, "text/html")
	if err != nil {
		return failed[[]domain.HistoricalPoint](ctx, c.Name(), "historical", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return failed[[]domain.HistoricalPoint](ctx, c.Name(), "historical", fmt.Errorf("goquery.NewDocumentFromReader: %w", err))
	}

	points, err := parsePITTable(doc)
	if err != nil {
		return failed[[]domain.HistoricalPoint](ctx, c.Name(), "historical", err)
	}
	return domain.OK(c.Name(), points)
}

type pitColumns struct {
	year, total, sheltered, unsheltered int
}

// parsePITTable finds the first table whose header has a year column and reads one point per row.
func parsePITTable(doc *goquery.Document) ([]domain.HistoricalPoint, error) {
	builder := dto.NewHistoryBuilder()

	var found bool
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		cols, ok := headerColumns(table)
		if !ok {
			return true
		}
		found = true

		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			cells := tr.Find("td, th")
			if tr.Find("td").Length() == 0 {
				return
			}

			cell := func(i int) string {
				if i < 0 || i >= cells.Length() {
					return ""
				}
				return strings.TrimSpace(cells.Eq(i).Text())
			}

			year := int(parseNumber(cell(cols.year)))
			if year < 1900 {
				return
			}

			builder.Put(domain.HistoricalPoint{
				Year:        year,
				Total:       nonNegative(parseNumber(cell(cols.total))),
				Sheltered:   nonNegative(parseNumber(cell(cols.sheltered))),
				Unsheltered: nonNegative(parseNumber(cell(cols.unsheltered))),
			})
		})
		return false
	})

	if !found {
		return nil, errors.New("no PIT table with a year column")
	}
	return builder.Series(), nil
}

func headerColumns(table *goquery.Selection) (pitColumns, bool) {
	cols := pitColumns{year: -1, total: -1, sheltered: -1, unsheltered: -1}

	header := table.Find("thead tr").First()
	if header.Length() == 0 {
		header = table.Find("tr").First()
	}

	header.Find("th, td").Each(func(i int, cell *goquery.Selection) {
		text := strings.ToLower(strings.TrimSpace(cell.Text()))
		switch {
		case strings.Contains(text, "unsheltered"):
			cols.unsheltered = i
		case strings.Contains(text, "sheltered"):
			cols.sheltered = i
		case strings.Contains(text, "total"):
			cols.total = i
		case strings.Contains(text, "year"):
			cols.year = i
		}
	})

	return cols, cols.year >= 0
}

func nonNegative(f float64) int {
	if f <= 0 {
		return 0
	}
	return int(f)
}
