package models

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestProviderChannelID(t *testing.T) {
	if diff := cmp.Diff("42.tvnyt.fi", TVNyt.ChannelID(42)); diff != "" {
		t.Errorf("ChannelID() mismatch (-want +got):\n%s", diff)
	}
}

func TestProviderScheduleURLFor(t *testing.T) {
	day := time.Date(2011, 2, 28, 15, 4, 5, 0, time.UTC)
	want := "http://www.tvnyt.fi/ohjelmaopas/getChannelPrograms.aspx?channel=7&start=201102280000&timestamp=0"
	if diff := cmp.Diff(want, TVNyt.ScheduleURLFor(7, day)); diff != "" {
		t.Errorf("ScheduleURLFor() mismatch (-want +got):\n%s", diff)
	}
}
