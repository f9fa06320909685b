package domain

import "fmt"

// SkippedFile records a file a batch run could not process.
type SkippedFile struct {
	Path   string
	Reason error
}

// Stats summarizes a batch signing run.
type Stats struct {
	Signed         int
	Fixed          int
	FriendsRemoved int
	Skipped        []SkippedFile
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Signed += other.Signed
	s.Fixed += other.Fixed
	s.FriendsRemoved += other.FriendsRemoved
	s.Skipped = append(s.Skipped, other.Skipped...)
}

// Empty reports whether the run neither signed nor fixed anything.
func (s Stats) Empty() bool {
	return s.Signed == 0 && s.Fixed == 0
}

// String renders the summary line printed after a batch run.
func (s Stats) String() string {
	return fmt.Sprintf("signed %d, fixed %d, skipped %d", s.Signed, s.Fixed, len(s.Skipped))
}
