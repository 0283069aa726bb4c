package registry

import "github.com/voyagen/tvgrab/internal/models"

// Selector decides whether a discovered channel becomes active.
type Selector interface {
	Select(ch models.Channel) (bool, error)
}

// SelectorFunc adapts a plain function to Selector.
type SelectorFunc func(ch models.Channel) (bool, error)

func (f SelectorFunc) Select(ch models.Channel) (bool, error) { return f(ch) }

// SelectAll activates every channel.
var SelectAll = SelectorFunc(func(models.Channel) (bool, error) { return true, nil })

// SelectNone deactivates every channel.
var SelectNone = SelectorFunc(func(models.Channel) (bool, error) { return false, nil })

// SelectIDs activates exactly the channels whose id is in ids.
func SelectIDs(ids map[int]bool) Selector {
	return SelectorFunc(func(ch models.Channel) (bool, error) { return ids[ch.ID], nil })
}

// Merge builds a new registry from the discovered catalog, asking sel about
// each channel in discovery order. The first selector error aborts the merge.
func Merge(discovered []models.Channel, sel Selector) (*Registry, error) {
	r := New()
	for _, ch := range discovered {
		active, err := sel.Select(ch)
		if err != nil {
			return nil, err
		}
		ch.Active = active
		r.put(ch)
	}
	return r, nil
}
