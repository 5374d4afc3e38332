package domain

import (
	"github.com/shopspring/decimal"
)

// StatRecord is a Point-in-Time snapshot for the Continuum of Care.
type StatRecord struct {
	TotalHomeless   int `json:"totalHomeless"`
	Sheltered       int `json:"sheltered"`
	Unsheltered     int `json:"unsheltered"`
	Families        int `json:"families"`
	Veterans        int `json:"veterans"`
	Youth           int `json:"youth"`
	ChronicHomeless int `json:"chronicHomeless"`

	ShelteredPercent   *decimal.Decimal `json:"shelteredPercent,omitempty"`
	UnshelteredPercent *decimal.Decimal `json:"unshelteredPercent,omitempty"`

	Year int `json:"year,omitempty"`
}

// HistoricalPoint is one reporting period. Series are ordered by Year.
type HistoricalPoint struct {
	Year        int    `json:"year"`
	Date        string `json:"date,omitempty"`
	Total       int    `json:"total"`
	Sheltered   int    `json:"sheltered"`
	Unsheltered int    `json:"unsheltered"`
}

type BedBreakdown struct {
	Emergency    int `json:"emergency"`
	Transitional int `json:"transitional"`
	Permanent    int `json:"permanent"`
}

type BedAvailability struct {
	Total         int             `json:"total"`
	Available     int             `json:"available"`
	Occupied      int             `json:"occupied"`
	OccupancyRate decimal.Decimal `json:"occupancyRate"`
	Breakdown     BedBreakdown    `json:"breakdown"`
}

type ImpactMetrics struct {
	PeopleHoused     int `json:"peopleHoused"`
	MealsServed      int `json:"mealsServed"`
	Volunteers       int `json:"volunteers"`
	ActiveShelters   int `json:"activeShelters"`
	NightsOfShelter  int `json:"nightsOfShelter"`
	OutreachContacts int `json:"outreachContacts"`
}

type ForecastPoint struct {
	Year     int             `json:"year"`
	Estimate int             `json:"estimate"`
	Lower    int             `json:"lower"`
	Upper    int             `json:"upper"`
	Trend    decimal.Decimal `json:"trend"`
}

type Year = int
