package dto

import (
	"time"

	"country-pulse-service/internal/app/service"
	"country-pulse-service/internal/domain"
)

// CountryResponse is one entry of the country list.
type CountryResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Flag string `json:"flag"`
	Slug string `json:"slug"`
}

// CountryListResponse wraps the country vocabulary.
type CountryListResponse struct {
	Countries []CountryResponse `json:"countries"`
}

// FromCountries converts the domain vocabulary to a CountryListResponse.
func FromCountries(countries []domain.Country) CountryListResponse {
	resp := CountryListResponse{Countries: make([]CountryResponse, len(countries))}
	for i, c := range countries {
		resp.Countries[i] = CountryResponse{
			Code: c.Code,
			Name: c.Name,
			Flag: c.Flag,
			Slug: c.Slug(),
		}
	}

	return resp
}

// SnapshotResponse describes the latest snapshot of one category.
type SnapshotResponse struct {
	Category  string `json:"category"`
	Available bool   `json:"available"`
	Name      string `json:"name,omitempty"`
	Path      string `json:"path,omitempty"`
	Date      string `json:"date,omitempty"`
	ModTime   string `json:"modTime,omitempty"`
	Size      int64  `json:"size,omitempty"`
}

// SnapshotsResponse lists the snapshots a country's view models are built from.
type SnapshotsResponse struct {
	Country   string             `json:"country"`
	Snapshots []SnapshotResponse `json:"snapshots"`
}

// FromSnapshotStatuses converts service.SnapshotStatus slice to SnapshotsResponse.
func FromSnapshotStatuses(country string, statuses []service.SnapshotStatus) SnapshotsResponse {
	resp := SnapshotsResponse{
		Country:   country,
		Snapshots: make([]SnapshotResponse, len(statuses)),
	}

	for i, st := range statuses {
		r := SnapshotResponse{Category: string(st.Category)}
		if info := st.Snapshot; info != nil {
			r.Available = true
			r.Name = info.Name
			r.Path = info.Path
			r.Date = info.Date.Format(time.DateOnly)
			r.Size = info.Size
			if !info.ModTime.IsZero() {
				r.ModTime = info.ModTime.UTC().Format(time.RFC3339)
			}
		}
		resp.Snapshots[i] = r
	}

	return resp
}

// WarmupResultResponse represents the outcome of warming one country.
type WarmupResultResponse struct {
	Country  string `json:"country"`
	Items    int    `json:"items"`
	NoData   bool   `json:"noData,omitempty"`
	Duration string `json:"duration"`
	Error    string `json:"error,omitempty"`
}

// WarmupResponse represents the response of a full warm-up.
type WarmupResponse struct {
	Results []WarmupResultResponse `json:"results"`
	Summary WarmupSummary          `json:"summary"`
}

// WarmupSummary holds totals of a warm-up run.
type WarmupSummary struct {
	TotalItems int `json:"totalItems"`
	Warmed     int `json:"warmed"`
	NoData     int `json:"noData"`
	Failed     int `json:"failed"`
}

// FromWarmupResult converts a single service.WarmupResult.
func FromWarmupResult(r service.WarmupResult) WarmupResultResponse {
	resp := WarmupResultResponse{
		Country:  r.Country,
		Items:    r.Items,
		NoData:   r.NoData,
		Duration: r.Duration.String(),
	}
	if r.Error != nil {
		resp.Error = r.Error.Error()
	}

	return resp
}

// FromWarmupResults converts service.WarmupResult slice to WarmupResponse.
func FromWarmupResults(results []service.WarmupResult) WarmupResponse {
	resp := WarmupResponse{
		Results: make([]WarmupResultResponse, len(results)),
	}

	for i, r := range results {
		switch {
		case r.Error != nil:
			resp.Summary.Failed++
		case r.NoData:
			resp.Summary.NoData++
		default:
			resp.Summary.Warmed++
			resp.Summary.TotalItems += r.Items
		}

		resp.Results[i] = FromWarmupResult(r)
	}

	return resp
}

// HealthResponse represents health check response.
type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp string            `json:"timestamp"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}
