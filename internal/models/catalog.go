package models

import "time"

// Item is a kind of physical goods moved by tasks.
type Item struct {
	ID       string     `json:"itemId"`
	Name     string     `json:"name"`
	Created  time.Time  `json:"created"`
	Modified time.Time  `json:"modified"`
	Deleted  *time.Time `json:"deleted"`
}

// Location is a named place; locations form a tree through ParentLocationID.
type Location struct {
	ID               string     `json:"locationId"`
	Name             string     `json:"name"`
	ParentLocationID *string    `json:"parentLocationId"`
	Created          time.Time  `json:"created"`
	Modified         time.Time  `json:"modified"`
	Deleted          *time.Time `json:"deleted"`
}
