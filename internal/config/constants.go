package config

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./librarian.db"

	// DefaultWeeklyLateFee is the amount charged per started week a book is overdue
	DefaultWeeklyLateFee = 100

	// DefaultLoanPeriodDays is how long a borrowing created from a received
	// reservation runs before it is due
	DefaultLoanPeriodDays = 14
)
