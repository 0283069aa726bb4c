package models

import "time"

// Run summarises one grab run for the history store.
type Run struct {
	ID         int64      `json:"id,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Days       int        `json:"days"`
	Offset     int        `json:"offset"`
	Cycles     int        `json:"cycles"`
	Failures   int        `json:"failures"`
	Programmes int        `json:"programmes"`
}

// CycleOutcome is the result of fetching one channel for one day.
// Error is empty when the cycle succeeded.
type CycleOutcome struct {
	ChannelID  int       `json:"channel_id"`
	Date       time.Time `json:"date"`
	URL        string    `json:"url"`
	Programmes int       `json:"programmes"`
	Error      string    `json:"error,omitempty"`
}
