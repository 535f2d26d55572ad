package models

type Week struct {
	ID       string `json:"_id,omitempty" bson:"_id,omitempty"`
	WeekID   int    `json:"week_id" bson:"week_id"`
	WeekName string `json:"week_name" bson:"week_name"`
}
