package models

// Board joins every student against every week.
type Board struct {
	Weeks    []Week       `json:"weeks"`
	Students []StudentRow `json:"students"`
}

// StudentRow is one line of the board. Attendance is keyed by week_id and has
// an entry for every week on the board.
type StudentRow struct {
	ID            string         `json:"_id,omitempty"`
	StudentID     string         `json:"student_id"`
	Name          string         `json:"name"`
	StudentNumber string         `json:"student_number"`
	Major         string         `json:"major"`
	Attendance    map[int]Status `json:"attendance"`
}
