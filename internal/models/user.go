package models

// User is a marketplace account. Age and city are optional profile fields.
type User struct {
	ID    int     `db:"id" json:"id"`
	Name  string  `db:"name" json:"name"`
	Email string  `db:"email" json:"email"`
	Age   *int    `db:"age" json:"age,omitempty"`
	City  *string `db:"city" json:"city,omitempty"`
}
