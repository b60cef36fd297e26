package models

// Snapshot is everything derived from one filter over the current dataset.
type Snapshot struct {
	Filters  FilterState `json:"filters"`
	RowCount int         `json:"rowCount"`
	KPIs     KPIStats    `json:"kpis"`
	Rollups  Rollups     `json:"rollups"`
	Alerts   []AlertItem `json:"alerts"`
}
