package models

// Programme is a single schedule entry for one channel.
// Start and Stop use the YYYYMMDDhhmmss layout; ChannelID is already in the
// document's external form (e.g. "5.tvnyt.fi").
type Programme struct {
	TimezoneOffset string `json:"timezone_offset"`
	Start          string `json:"start"`
	Stop           string `json:"stop"`
	ChannelID      string `json:"channel_id"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
}
