package models

// Student represents a student record
type Student struct {
	PRN                  int64     `json:"prn"`                            // Permanent Registration Number, not enforced unique
	Name                 string    `json:"name"`                           // Student name
	RollNo               int       `json:"rollno,omitempty"`               // Roll number within the division
	Year                 int       `json:"year"`                           // 1 (FY) to 4 (LY)
	Division             string    `json:"division,omitempty"`             // Division letter, e.g. "A"
	Present              *int      `json:"present,omitempty"`              // Lectures attended
	Total                *int      `json:"total,omitempty"`                // Lectures held
	AttendancePercentage *float64  `json:"attendancePercentage,omitempty"` // Derived from Present/Total
	Marks                []float64 `json:"marks,omitempty"`                // Marks in subject order
	Average              *float64  `json:"average,omitempty"`              // Derived from Marks
}

// Recompute refreshes both derived fields from the values they are based on.
func (s *Student) Recompute() {
	s.RecomputeAttendance()
	s.RecomputeAverage()
}

// RecomputeAttendance sets AttendancePercentage from Present/Total.
// Nothing happens when Total is absent; a zero Total gives 0%.
func (s *Student) RecomputeAttendance() {
	if s.Total == nil {
		return
	}
	present := 0
	if s.Present != nil {
		present = *s.Present
	}
	pct := 0.0
	if *s.Total > 0 {
		pct = float64(present) / float64(*s.Total) * 100
	}
	s.AttendancePercentage = &pct
}

// RecomputeAverage sets Average to the mean of Marks.
// Nothing happens when Marks is absent; an empty list gives 0.
func (s *Student) RecomputeAverage() {
	if s.Marks == nil {
		return
	}
	avg := 0.0
	if len(s.Marks) > 0 {
		sum := 0.0
		for _, m := range s.Marks {
			sum += m
		}
		avg = sum / float64(len(s.Marks))
	}
	s.Average = &avg
}

// AttendanceOrZero returns the attendance percentage, treating a missing one as 0.
func (s Student) AttendanceOrZero() float64 {
	if s.AttendancePercentage == nil {
		return 0
	}
	return *s.AttendancePercentage
}

// AverageOrZero returns the average mark, treating a missing one as 0.
func (s Student) AverageOrZero() float64 {
	if s.Average == nil {
		return 0
	}
	return *s.Average
}

// Clone returns a deep copy so callers cannot alias the store's pointers.
func (s Student) Clone() Student {
	c := s
	if s.Present != nil {
		v := *s.Present
		c.Present = &v
	}
	if s.Total != nil {
		v := *s.Total
		c.Total = &v
	}
	if s.AttendancePercentage != nil {
		v := *s.AttendancePercentage
		c.AttendancePercentage = &v
	}
	if s.Average != nil {
		v := *s.Average
		c.Average = &v
	}
	if s.Marks != nil {
		c.Marks = append([]float64(nil), s.Marks...)
	}
	return c
}

// Project represents a student project entry
type Project struct {
	PRN   int64  `json:"prn"`   // Owner PRN
	Name  string `json:"name"`  // Owner name at the time the project was added
	Title string `json:"title"` // Project title
	Desc  string `json:"desc"`  // Free-form description
}

// PassFail holds the pass and fail counts of one year
type PassFail struct {
	Pass int `json:"pass"`
	Fail int `json:"fail"`
}
