package models

// BlankDescription is the placeholder the provider sends for "no description".
const BlankDescription = "&#x20;"

// TVNyt is the built-in tvnyt.fi provider.
var TVNyt = Provider{
	Name:            "tvnyt.fi",
	SourceURL:       "http://www.tvnyt.fi/",
	ScheduleURL:     "http://www.tvnyt.fi/ohjelmaopas/getChannelPrograms.aspx?channel={channel}&start={date}0000&timestamp=0",
	CatalogURL:      "http://www.tvnyt.fi/ohjelmaopas/wp_channels.js?timestamp=0",
	ChannelIDFormat: "%d.tvnyt.fi",
	TimezoneOffset:  "0200",
	Language:        "fi",
}
