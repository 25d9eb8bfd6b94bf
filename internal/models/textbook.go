package models

import "time"

// Textbook is a marketplace listing.
type Textbook struct {
	ID              int       `db:"id" json:"id"`
	Title           string    `db:"title" json:"title"`
	Subject         *string   `db:"subject" json:"subject,omitempty"`
	CourseNumber    *string   `db:"course_number" json:"course_number,omitempty"`
	ConditionStatus *string   `db:"condition_status" json:"condition_status,omitempty"`
	Price           float64   `db:"price" json:"price"`
	SellerContact   string    `db:"seller_contact" json:"seller_contact"`
	Description     *string   `db:"description" json:"description,omitempty"`
	ImageURL        *string   `db:"image_url" json:"image_url,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// TextbookDetail adds the seller account resolved from the listing's
// contact email, when one exists.
type TextbookDetail struct {
	Textbook
	SellerID   *int    `db:"seller_id" json:"seller_id,omitempty"`
	SellerName *string `db:"seller_name" json:"seller_name,omitempty"`
}
