package models

// Category groups instruments. Slug is the unique, case-insensitive lookup key.
type Category struct {
	ID          int64  `json:"id" db:"id" yaml:"-"`
	Name        string `json:"name" db:"name" yaml:"name"`
	Slug        string `json:"slug" db:"slug" yaml:"slug"`
	Summary     string `json:"summary" db:"summary" yaml:"summary"`
	Description string `json:"description" db:"description" yaml:"description"`
}
