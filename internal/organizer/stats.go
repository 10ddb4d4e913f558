package organizer

// Stats accumulates across a whole run and is the authoritative
// session summary.
type Stats struct {
	Scanned    int
	ToOrganize int
	Moved      int
	BackedUp   int
	Skipped    int
	Duplicates int
	Errors     int
}
