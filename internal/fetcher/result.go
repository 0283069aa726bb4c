package fetcher

import (
	"fmt"
	"time"
)

// Request identifies one fetch cycle: a channel on a given day.
type Request struct {
	ChannelID int
	Date      time.Time
	URL       string
}

func (r Request) String() string {
	return fmt.Sprintf("channel %d on %s", r.ChannelID, r.Date.Format("2006-01-02"))
}

// FetchError is a transport failure while obtaining a payload.
type FetchError struct {
	URL    string
	Status int // 0 when no response was received
	Err    error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch %s: %v", e.URL, e.Err) }

func (e *FetchError) Unwrap() error { return e.Err }

// DecodeError reports a payload that could not be decoded after repair.
// Payload holds the repaired text that was handed to the decoder.
type DecodeError struct {
	Request Request
	Payload []byte
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s (%s): %v", e.Request, e.Request.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
