package riksbank

import "time"

// DateLayout is the calendar date format used throughout the Riksbank APIs.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO-8601 calendar date (YYYY-MM-DD).
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Observation is a single dated value as returned by the SWEA and SWESTR APIs.
type Observation struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// ForecastObservation is one dated row inside a forecast vintage.
//
// Value always carries the originally published number. Forecast is non-nil
// when the row was a forecast at publication time; Observation is non-nil when
// the row is an actual out-turn. Realized is filled in by the merge engine
// once a later vintage reports the out-turn for a date that was originally
// only forecast. A row that was never a forecast has Realized equal to its
// own value.
type ForecastObservation struct {
	Date        string   `json:"dt"`
	Value       float64  `json:"value"`
	Forecast    *float64 `json:"forecast"`
	Observation *float64 `json:"observation"`
	Realized    *float64 `json:"realized"`
}

// ForecastMetadata holds per-vintage publication facts. The timestamps are
// kept as wire strings; only the cutoff date is ever interpreted, and that
// happens in the merge engine so a bad value fails the right operation.
type ForecastMetadata struct {
	RevisionDtm        string `json:"revision_dtm,omitempty"`
	ForecastCutoffDate string `json:"forecast_cutoff_date"`
	PolicyRound        string `json:"policy_round"`
	PolicyRoundCode    string `json:"policy_round_code,omitempty"`
	PolicyRoundEndDtm  string `json:"policy_round_end_dtm,omitempty"`
}

// ForecastVintage is one published snapshot of a forecast series.
type ForecastVintage struct {
	Metadata     ForecastMetadata      `json:"metadata"`
	Observations []ForecastObservation `json:"observations"`
}

// PolicyRound identifies a monetary-policy publication event ("YYYY:N").
type PolicyRound struct {
	ID        string `json:"id"`
	Year      int    `json:"year"`
	Iteration int    `json:"iteration"`
}

// SeriesInfo describes one series available from the monetary policy API.
type SeriesInfo struct {
	ID           string `json:"id"`
	Decimals     int    `json:"decimals"`
	StartDate    string `json:"start_date"`
	Description  string `json:"description"`
	SourceAgency string `json:"source_agency"`
	Unit         string `json:"unit"`
	Note         string `json:"note,omitempty"`
}

// MonetaryPolicyDataResponse is the result of a forecast series fetch:
// one external id plus the vintages matching the requested policy round
// (all vintages when no round was requested).
type MonetaryPolicyDataResponse struct {
	ExternalID string            `json:"external_id"`
	Vintages   []ForecastVintage `json:"vintages"`
}

// ExchangeRateData is a SWEA exchange rate series result.
type ExchangeRateData struct {
	SeriesID     string        `json:"series_id"`
	Observations []Observation `json:"observations"`
}

// InterestRateData is a SWEA or SWESTR interest rate series result.
type InterestRateData struct {
	Observations []Observation `json:"observations"`
}

// CrossRate is a single cross-rate observation from the SWEA API.
type CrossRate struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// CrossRateAggregate is an aggregated cross-rate observation
// (monthly, quarterly, yearly) from the SWEA API.
type CrossRateAggregate struct {
	Year  int     `json:"Year"`
	SeqNr int     `json:"SeqNr"`
	Value float64 `json:"Value"`
}

// ObservationAggregate is an aggregated observation from the SWEA
// /ObservationAggregates endpoints.
type ObservationAggregate struct {
	Year             int     `json:"year"`
	SeqNr            int     `json:"seqNr"`
	From             string  `json:"from"`
	To               string  `json:"to"`
	Average          float64 `json:"average"`
	Min              float64 `json:"min"`
	Max              float64 `json:"max"`
	Ultimo           float64 `json:"ultimo"`
	ObservationCount int     `json:"observationCount"`
}

// CalendarDay describes a single calendar date as returned by the SWEA
// /CalendarDays endpoints.
type CalendarDay struct {
	CalendarDate   string `json:"calendarDate"`
	SwedishBankday bool   `json:"swedishBankday"`
	WeekYear       int    `json:"weekYear"`
	WeekNumber     int    `json:"weekNumber"`
	QuarterNumber  int    `json:"quarterNumber"`
	Ultimo         bool   `json:"ultimo"`
}
