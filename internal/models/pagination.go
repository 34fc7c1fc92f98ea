package models

// Pagination mirrors the shape the report/list consumers iterate over.
type Pagination struct {
	Size  int `json:"size"`
	Page  int `json:"page"`
	Count int `json:"count"`
	Total int `json:"total"`
}
