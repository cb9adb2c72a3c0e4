package models

// Transaction is one row of dbo.transactions.
//
// ID is assigned by the database on insert and never set by callers.
type Transaction struct {
	ID          int64   `json:"id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// MaxDescriptionLength is the width of the description column.
const MaxDescriptionLength = 255
