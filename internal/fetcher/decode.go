package fetcher

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/voyagen/tvgrab/internal/models"
)

var errNoNumericKey = errors.New("payload has no single numeric top-level key")

// rawProgramme is one element of the schedule array as sent by the provider.
type rawProgramme struct {
	ID       string `json:"id"`
	Start    string `json:"start"`
	Stop     string `json:"stop"`
	Title    string `json:"title"`
	Desc     string `json:"desc"`
	Category string `json:"category"`
}

// Decode parses a repaired payload into programmes for req's channel.
// Failures are returned as *DecodeError carrying the payload and request.
func Decode(p models.Provider, req Request, payload []byte) ([]models.Programme, error) {
	fail := func(err error) error {
		return &DecodeError{Request: req, Payload: payload, Err: err}
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(payload, &top); err != nil {
		return nil, fail(err)
	}
	var key string
	n := 0
	for k := range top {
		if k != "" && isDigits(k) {
			key = k
			n++
		}
	}
	if n != 1 {
		return nil, fail(fmt.Errorf("%w (found %d)", errNoNumericKey, n))
	}

	var raw []rawProgramme
	if err := json.Unmarshal(top[key], &raw); err != nil {
		return nil, fail(fmt.Errorf("key %q: %w", key, err))
	}

	chid := p.ChannelID(req.ChannelID)
	out := make([]models.Programme, 0, len(raw))
	for _, r := range raw {
		desc := r.Desc
		if desc == models.BlankDescription {
			desc = ""
		}
		out = append(out, models.Programme{
			TimezoneOffset: p.TimezoneOffset,
			Start:          r.Start,
			Stop:           r.Stop,
			ChannelID:      chid,
			Title:          r.Title,
			Description:    desc,
		})
	}
	return out, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
