package models

import (
	"fmt"
	"strings"
	"time"
)

// Provider identifies a listing source: where its data lives and how its
// channels and times are written into the output document.
type Provider struct {
	Name string `json:"name"`
	// SourceURL is written into the document's source-info-url and source-data-url.
	SourceURL string `json:"source_url"`
	// ScheduleURL is a template with {channel} and {date} (YYYYMMDD) placeholders.
	ScheduleURL string `json:"schedule_url"`
	CatalogURL  string `json:"catalog_url"`
	// ChannelIDFormat is a fmt verb string taking the numeric channel id.
	ChannelIDFormat string `json:"channel_id_format"`
	TimezoneOffset  string `json:"timezone_offset"`
	Language        string `json:"language"`
	// Charset overrides the charset announced by the server; empty means trust the response.
	Charset string `json:"charset,omitempty"`
}

// ChannelID returns the external channel id used in the document.
func (p Provider) ChannelID(id int) string {
	return fmt.Sprintf(p.ChannelIDFormat, id)
}

// ScheduleURLFor returns the schedule URL for one channel on one day.
func (p Provider) ScheduleURLFor(id int, day time.Time) string {
	r := strings.NewReplacer(
		"{channel}", fmt.Sprintf("%d", id),
		"{date}", day.Format("20060102"),
	)
	return r.Replace(p.ScheduleURL)
}
