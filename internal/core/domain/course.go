package domain

import "time"

// Course is referenced by enrollments and purchases. Content delivery is out
// of scope; this is the catalog projection used by checkout and the course
// lookup endpoint.
type Course struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	Price       float64   `json:"price"`
	Currency    string    `json:"currency"`
	Category    string    `json:"category,omitempty"`
	Instructor  string    `json:"instructor,omitempty"`
	ModuleCount int       `json:"module_count"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsFree reports whether checkout can skip the payment gateway entirely.
func (c *Course) IsFree() bool {
	return c.Price == 0
}
