package domain

// Table Model
type Table struct {
	ID       uint   `gorm:"primaryKey" json:"table_id"`   // Primary key
	Name     string `gorm:"size:64;not null" json:"name"` // Label shown to guests
	Capacity int    `gorm:"not null" json:"capacity"`     // Seats, 0 means unlimited
	Location string `gorm:"size:128" json:"location"`     // Hall, terrace, window...
}

// Fits reports whether a party of the given size can sit at the table
func (t Table) Fits(people int) bool {
	return t.Capacity <= 0 || people <= t.Capacity
}
