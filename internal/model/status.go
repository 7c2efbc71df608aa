package model

import "time"

type Status string

const (
	StatusBorrowed Status = "borrowed"
	StatusReturned Status = "returned"
	StatusOverdue  Status = "overdue"
)

// LateFeePerDay is the fee charged per whole day past the due date.
const LateFeePerDay = 1.0

// DeriveStatus is the single source of truth for a borrowing's status and
// late fee. Both the return path and the overdue scan go through it so the
// two can never disagree. A zero returnDate means the book is still out.
func DeriveStatus(dueDate, returnDate time.Time, now time.Time) (Status, float64) {
	if returnDate.IsZero() {
		if now.After(dueDate) {
			return StatusOverdue, 0
		}
		return StatusBorrowed, 0
	}
	if returnDate.After(dueDate) {
		days := int(returnDate.Sub(dueDate).Hours() / 24)
		return StatusOverdue, float64(days) * LateFeePerDay
	}
	return StatusReturned, 0
}
