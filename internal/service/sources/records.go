package sources

import (
	"strings"

	"github.com/hopelouisville/dashboard/internal/domain"
)

// Upstream field names seen across HUD exports, Socrata datasets and CKAN resources.
var (
	keysYear        = []string{"year", "pit_year", "count_year", "reporting_year"}
	keysDate        = []string{"date", "count_date", "pit_date"}
	keysTotal       = []string{"totalHomeless", "total_homeless", "overall_homeless", "overall", "total"}
	keysSheltered   = []string{"sheltered", "sheltered_total", "total_sheltered", "sheltered_total_homeless"}
	keysUnsheltered = []string{"unsheltered", "unsheltered_total", "total_unsheltered", "unsheltered_homeless"}
	keysFamilies    = []string{"families", "homeless_family_households", "people_in_families", "family_households"}
	keysVeterans    = []string{"veterans", "homeless_veterans", "overall_homeless_veterans"}
	keysYouth       = []string{"youth", "unaccompanied_youth", "homeless_unaccompanied_youth", "homeless_youth"}
	keysChronic     = []string{"chronicHomeless", "chronic_homeless", "chronically_homeless", "overall_chronically_homeless"}
)

func toStatRecord(m map[string]any) domain.StatRecord {
	return domain.StatRecord{
		TotalHomeless:   intField(m, keysTotal...),
		Sheltered:       intField(m, keysSheltered...),
		Unsheltered:     intField(m, keysUnsheltered...),
		Families:        intField(m, keysFamilies...),
		Veterans:        intField(m, keysVeterans...),
		Youth:           intField(m, keysYouth...),
		ChronicHomeless: intField(m, keysChronic...),
		Year:            yearOf(m),
	}
}

func toHistoricalPoint(m map[string]any) domain.HistoricalPoint {
	return domain.HistoricalPoint{
		Year:        yearOf(m),
		Date:        stringField(m, keysDate...),
		Total:       intField(m, keysTotal...),
		Sheltered:   intField(m, keysSheltered...),
		Unsheltered: intField(m, keysUnsheltered...),
	}
}

// yearOf reads the year column, falling back to the leading digits of a date column.
func yearOf(m map[string]any) int {
	if y := intField(m, keysYear...); y > 0 {
		return y
	}
	date := stringField(m, keysDate...)
	if len(date) >= 4 {
		return int(parseNumber(date[:4]))
	}
	return 0
}

// latestRow picks the row with the highest year; ties keep the earliest row.
func latestRow(rs []map[string]any) map[string]any {
	var (
		best     map[string]any
		bestYear = -1
	)
	for _, r := range rs {
		if y := yearOf(r); y > bestYear {
			best, bestYear = r, y
		}
	}
	return best
}

func resourceType(category string) domain.ResourceType {
	c := strings.ToLower(category)
	switch {
	case domain.ResourceType(c).Valid():
		return domain.ResourceType(c)
	case strings.Contains(c, "shelter"), strings.Contains(c, "housing"):
		return domain.ResourceShelter
	case strings.Contains(c, "food"), strings.Contains(c, "meal"), strings.Contains(c, "pantry"), strings.Contains(c, "kitchen"):
		return domain.ResourceFood
	case strings.Contains(c, "clinic"), strings.Contains(c, "health"), strings.Contains(c, "medical"):
		return domain.ResourceClinic
	}
	return domain.ResourceServices
}

func toResource(m map[string]any, source string) domain.Resource {
	r := domain.Resource{
		ID:       int64(intField(m, "id", "objectid")),
		Name:     stringField(m, "name", "facility_name", "site_name", "agency"),
		Type:     resourceType(stringField(m, "type", "category", "service_type", "facility_type")),
		Address:  stringField(m, "address", "street_address", "full_address", "location_address"),
		Phone:    stringField(m, "phone", "phone_number", "telephone"),
		Hours:    stringField(m, "hours", "hours_of_operation", "schedule"),
		Services: stringsField(m, "services", "services_offered", "programs"),
		IsOpen:   boolField(m, true, "isOpen", "is_open", "open", "status"),
		Source:   source,
	}
	if r.Services == nil {
		r.Services = []string{}
	}

	r.Coordinates = coordinatesOf(m)

	if _, ok := lookup(m, "capacity", "total_beds", "beds"); ok {
		v := intField(m, "capacity", "total_beds", "beds")
		r.Capacity = &v
	}
	if _, ok := lookup(m, "available", "available_beds", "beds_available"); ok {
		v := intField(m, "available", "available_beds", "beds_available")
		r.Available = &v
	}

	return r
}

// coordinatesOf understands flat lat/lng columns, Socrata location objects and GeoJSON points.
func coordinatesOf(m map[string]any) domain.Coordinates {
	c := domain.Coordinates{
		Lat: floatField(m, "lat", "latitude", "y"),
		Lng: floatField(m, "lng", "lon", "longitude", "x"),
	}
	if !c.IsZero() {
		return c
	}

	for _, key := range []string{"coordinates", "location", "geocoded_column", "geometry"} {
		obj := objectField(m, key)
		if obj == nil {
			continue
		}
		if pt, ok := obj["coordinates"].([]any); ok && len(pt) >= 2 {
			return domain.Coordinates{Lng: toFloat(pt[0]), Lat: toFloat(pt[1])}
		}
		c = domain.Coordinates{
			Lat: floatField(obj, "lat", "latitude", "y"),
			Lng: floatField(obj, "lng", "lon", "longitude", "x"),
		}
		if !c.IsZero() {
			return c
		}
	}
	return domain.Coordinates{}
}
