package models

import "time"

// Student is a roster entry. ID is the store's document id rendered as a string.
type Student struct {
	ID        string    `json:"_id,omitempty" bson:"_id,omitempty"`
	StudentID string    `json:"student_id" bson:"student_id"`
	Name      string    `json:"name" bson:"name"`
	Major     string    `json:"major" bson:"major"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
