package sources

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/hopelouisville/dashboard/internal/domain"
	"github.com/hopelouisville/dashboard/internal/pkg/constants"
)

type DataGovConfig struct {
	HTTPConfig
	BaseURL string
	APIKey  string
	// StatsPackage is the CKAN package holding the national PIT-by-CoC table.
	StatsPackage string
	CoCCode      string
}

// DataGov queries the catalog.data.gov CKAN action API.
type DataGov struct {
	cfg   DataGovConfig
	fetch *fetcher
	// download fetches package resources, which live on publisher hosts and never get the key.
	download *fetcher
}

func NewDataGov(cfg DataGovConfig) *DataGov {
	return &DataGov{
		cfg:      cfg,
		fetch:    newFetcher(cfg.HTTPConfig, map[string]string{"X-Api-Key": cfg.APIKey}),
		download: newFetcher(cfg.HTTPConfig, nil),
	}
}

func (d *DataGov) Name() string {
	return constants.SourceDataGov
}

type ckanResource struct {
	Format string `json:"format"`
	URL    string `json:"url"`
}

type ckanPackage struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Title            string `json:"title"`
	Notes            string `json:"notes"`
	MetadataModified string `json:"metadata_modified"`
	Organization     *struct {
		Title string `json:"title"`
	} `json:"organization"`
	Resources []ckanResource `json:"resources"`
}

type ckanResponse[T any] struct {
	Success bool `json:"success"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
	Result T `json:"result"`
}

func (r ckanResponse[T]) err() error {
	if r.Success {
		return nil
	}
	if r.Error != nil && r.Error.Message != "" {
		return fmt.Errorf("ckan: %s", r.Error.Message)
	}
	return errors.New("ckan: request not successful")
}

func (d *DataGov) action(ctx context.Context, name string, query url.Values, out any) error {
	return d.fetch.getJSON(ctx, joinURL(d.cfg.BaseURL, "action", name), query, out)
}

// Search runs a package_search. rows is clamped to [1,100].
func (d *DataGov) Search(ctx context.Context, q string, rows int) domain.SourceResult[[]domain.Dataset] {
	rows = max(1, min(rows, 100))

	var resp ckanResponse[struct {
		Count   int           `json:"count"`
		Results []ckanPackage `json:"results"`
	}]
	query := url.Values{"q": {q}, "rows": {strconv.Itoa(rows)}}
	if err := d.action(ctx, "package_search", query, &resp); err != nil {
		return failed[[]domain.Dataset](ctx, d.Name(), "search", err)
	}
	if err := resp.err(); err != nil {
		return failed[[]domain.Dataset](ctx, d.Name(), "search", err)
	}

	datasets := make([]domain.Dataset, 0, len(resp.Result.Results))
	for _, p := range resp.Result.Results {
		datasets = append(datasets, toDataset(p))
	}
	return domain.OK(d.Name(), datasets)
}

func toDataset(p ckanPackage) domain.Dataset {
	ds := domain.Dataset{
		ID:       p.ID,
		Name:     p.Name,
		Title:    p.Title,
		Notes:    p.Notes,
		Modified: p.MetadataModified,
		URL:      "https://catalog.data.gov/dataset/" + p.Name,
	}
	if p.Organization != nil {
		ds.Organization = p.Organization.Title
	}
	seen := make(map[string]bool)
	for _, r := range p.Resources {
		f := strings.ToUpper(strings.TrimSpace(r.Format))
		if f != "" && !seen[f] {
			seen[f] = true
			ds.Formats = append(ds.Formats, f)
		}
	}
	return ds
}

// CurrentStats resolves the configured package, downloads its first JSON resource and returns
// the row for the configured CoC.
func (d *DataGov) CurrentStats(ctx context.Context) domain.SourceResult[domain.StatRecord] {
	if d.cfg.StatsPackage == "" {
		return failed[domain.StatRecord](ctx, d.Name(), "current stats", errors.New("stats package not configured"))
	}

	var pkg ckanResponse[ckanPackage]
	if err := d.action(ctx, "package_show", url.Values{"id": {d.cfg.StatsPackage}}, &pkg); err != nil {
		return failed[domain.StatRecord](ctx, d.Name(), "current stats", err)
	}
	if err := pkg.err(); err != nil {
		return failed[domain.StatRecord](ctx, d.Name(), "current stats", err)
	}

	resourceURL := ""
	for _, r := range pkg.Result.Resources {
		if strings.EqualFold(r.Format, "json") && r.URL != "" {
			resourceURL = r.URL
			break
		}
	}
	if resourceURL == "" {
		return failed[domain.StatRecord](ctx, d.Name(), "current stats", errors.New("package has no JSON resource"))
	}

	var body any
	if err := d.download.getJSON(ctx, resourceURL, nil, &body); err != nil {
		return failed[domain.StatRecord](ctx, d.Name(), "current stats", err)
	}

	var matching []map[string]any
	for _, r := range rows(body) {
		if strings.EqualFold(stringField(r, "coc_number", "coc_code", "CoC Number", "coc"), d.cfg.CoCCode) {
			matching = append(matching, r)
		}
	}
	row := latestRow(matching)
	if row == nil {
		return failed[domain.StatRecord](ctx, d.Name(), "current stats", fmt.Errorf("no row for %s", d.cfg.CoCCode))
	}
	return domain.OK(d.Name(), toStatRecord(row))
}
