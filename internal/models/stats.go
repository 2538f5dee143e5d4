package models

// StatCard is one dashboard aggregate tile.
type StatCard struct {
	Title       string `json:"title"`
	Value       int    `json:"value"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}
