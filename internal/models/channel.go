package models

// Channel is one provider channel and whether the user selected it for grabbing.
type Channel struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}
