package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/libratrack/lms/internal/model"
	"github.com/libratrack/lms/internal/service"
)

func TestMostBorrowedCSV(t *testing.T) {
	t.Parallel()

	got, err := service.MostBorrowedCSV([]model.BorrowCount{
		{Title: "Dune", TotalBorrows: 12},
		{Title: "Neuromancer, annotated", TotalBorrows: 7},
	})
	require.NoError(t, err)
	require.Equal(t,
		"Book Title,Total Borrows\n"+
			"Dune,12\n"+
			"\"Neuromancer, annotated\",7\n",
		string(got))
}

func TestMostBorrowedCSV_Empty(t *testing.T) {
	t.Parallel()

	got, err := service.MostBorrowedCSV(nil)
	require.NoError(t, err)
	require.Equal(t, "Book Title,Total Borrows\n", string(got))
}

func TestLateBorrowersCSV(t *testing.T) {
	t.Parallel()

	due := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	got, err := service.LateBorrowersCSV([]model.BorrowingRow{
		{Username: "reader", Title: "Dune", DueDate: due},
	})
	require.NoError(t, err)
	require.Equal(t,
		"User,Book Title,Due Date\n"+
			"reader,Dune,2026-08-20T00:00:00Z\n",
		string(got))
}

func TestCurrentlyBorrowedCSV(t *testing.T) {
	t.Parallel()

	borrowed := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	got, err := service.CurrentlyBorrowedCSV([]model.BorrowingRow{
		{Username: "reader", Title: "Dune", BorrowDate: borrowed},
		{Username: "other", Title: "Solaris", BorrowDate: borrowed},
	})
	require.NoError(t, err)
	require.Equal(t,
		"User,Book Title,Borrow Date\n"+
			"reader,Dune,2026-08-30T14:00:00Z\n"+
			"other,Solaris,2026-08-30T14:00:00Z\n",
		string(got))
}
