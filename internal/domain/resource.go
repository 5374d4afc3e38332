package domain

import "time"

type ResourceType string

const (
	ResourceShelter  ResourceType = "shelter"
	ResourceFood     ResourceType = "food"
	ResourceClinic   ResourceType = "clinic"
	ResourceServices ResourceType = "services"
)

func (t ResourceType) Valid() bool {
	switch t {
	case ResourceShelter, ResourceFood, ResourceClinic, ResourceServices:
		return true
	}
	return false
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Coordinates) IsZero() bool {
	return c.Lat == 0 && c.Lng == 0
}

type Resource struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Type        ResourceType `json:"type"`
	Address     string       `json:"address"`
	Coordinates Coordinates  `json:"coordinates"`
	Phone       string       `json:"phone,omitempty"`
	Hours       string       `json:"hours,omitempty"`
	Services    []string     `json:"services"`
	Capacity    *int         `json:"capacity,omitempty"`
	Available   *int         `json:"available,omitempty"`
	IsOpen      bool         `json:"isOpen"`
	Source      string       `json:"source,omitempty"`
}

// RankedResource is a Resource with its distance from a query point.
type RankedResource struct {
	Resource
	DistanceMiles float64 `json:"distanceMiles"`
}

type Volunteer struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Interests    []string  `json:"interests,omitempty"`
	Availability string    `json:"availability,omitempty"`
	Message      string    `json:"message,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Alert is an active National Weather Service alert.
type Alert struct {
	ID          string    `json:"id"`
	Event       string    `json:"event"`
	Headline    string    `json:"headline"`
	Severity    string    `json:"severity"`
	Urgency     string    `json:"urgency"`
	Area        string    `json:"area"`
	Description string    `json:"description,omitempty"`
	Effective   time.Time `json:"effective"`
	Expires     time.Time `json:"expires"`
}

var severityRank = map[string]int{"Extreme": 0, "Severe": 1, "Moderate": 2, "Minor": 3}

// SeverityRank orders alerts most severe first. Unknown severities sort last.
func (a Alert) SeverityRank() int {
	if r, ok := severityRank[a.Severity]; ok {
		return r
	}
	return len(severityRank)
}

// Dataset is an open-data catalog entry.
type Dataset struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Title        string   `json:"title"`
	Notes        string   `json:"notes,omitempty"`
	Organization string   `json:"organization,omitempty"`
	Modified     string   `json:"modified,omitempty"`
	Formats      []string `json:"formats,omitempty"`
	URL          string   `json:"url,omitempty"`
}
