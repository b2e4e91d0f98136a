package models

type Instrument struct {
	ID          int64  `json:"id" db:"id"`
	CategoryID  int64  `json:"categoryId" db:"category_id"`
	UserID      string `json:"userId" db:"user_id"`
	Name        string `json:"name" db:"name"`
	Summary     string `json:"summary" db:"summary"`
	Description string `json:"description" db:"description"`
	ImageURL    string `json:"imageUrl" db:"image_url"`
}

// OwnerID returns the id of the identity that owns the instrument
func (i *Instrument) OwnerID() string {
	return i.UserID
}

// User is the placeholder row referenced by instruments.user_id.
// The id is the token subject issued by the identity provider.
type User struct {
	ID string `json:"id" db:"id"`
}
