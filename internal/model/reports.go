package model

import "time"

// BorrowCount is one row of the most-borrowed-books aggregation.
type BorrowCount struct {
	Title        string `db:"title"`
	TotalBorrows int    `db:"total_borrows"`
}

// BorrowingRow is a borrowing joined with its user and book for report CSVs.
type BorrowingRow struct {
	Username   string    `db:"username"`
	Title      string    `db:"title"`
	BorrowDate time.Time `db:"borrow_date"`
	DueDate    time.Time `db:"due_date"`
}
