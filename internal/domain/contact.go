package domain

import "time"

// DateOfBirth is stored as discrete fields rather than a timestamp so a
// partially known date (year only) can be represented.
type DateOfBirth struct {
	Day   int `json:"day" dynamodbav:"day" binding:"omitempty,min=1,max=31"`
	Month int `json:"month" dynamodbav:"month" binding:"omitempty,min=1,max=12"`
	Year  int `json:"year" dynamodbav:"year" binding:"omitempty,min=1900"`
}

type Contact struct {
	ContactID   string      `json:"contact_id" dynamodbav:"contact_id"`
	FirstName   string      `json:"first_name" dynamodbav:"first_name"`
	LastName    string      `json:"last_name" dynamodbav:"last_name"`
	DateOfBirth DateOfBirth `json:"date_of_birth" dynamodbav:"date_of_birth"`
	PhoneNumber string      `json:"phone_number" dynamodbav:"phone_number"`
	Email       string      `json:"email" dynamodbav:"email"`
	CreatedAt   time.Time   `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" dynamodbav:"updated_at"`
}

// ContactRequest is shared between create and update; email uniqueness is
// enforced by the service.
type ContactRequest struct {
	FirstName   string      `json:"first_name" binding:"required"`
	LastName    string      `json:"last_name" binding:"required"`
	DateOfBirth DateOfBirth `json:"date_of_birth"`
	PhoneNumber string      `json:"phone_number" binding:"required"`
	Email       string      `json:"email" binding:"required,email"`
}
