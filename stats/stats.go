// Package stats computes the dashboard figures over a full student list.
// Every function is a pure linear scan; nothing is cached between calls.
package stats

import (
	"sort"
	"strings"

	"studentcp-server-go/models"
)

const (
	FirstYear = 1
	LastYear  = 4

	DefaultLowAttendanceThreshold = 75.0
	DefaultPassMark               = 35.0
)

func validYear(year int) bool {
	return year >= FirstYear && year <= LastYear
}

// Total is the number of records.
func Total(students []models.Student) int {
	return len(students)
}

// YearCounts counts students per year 1..4. Other years are ignored.
func YearCounts(students []models.Student) map[int]int {
	counts := map[int]int{1: 0, 2: 0, 3: 0, 4: 0}
	for _, s := range students {
		if validYear(s.Year) {
			counts[s.Year]++
		}
	}
	return counts
}

// Toppers picks, for each year 1..4, the student with the highest average.
// A missing average counts as 0 and the first student seen wins a tie.
// Years without students map to nil.
func Toppers(students []models.Student) map[int]*models.Student {
	toppers := map[int]*models.Student{1: nil, 2: nil, 3: nil, 4: nil}
	for i := range students {
		s := students[i]
		if !validYear(s.Year) {
			continue
		}
		if cur := toppers[s.Year]; cur == nil || s.AverageOrZero() > cur.AverageOrZero() {
			toppers[s.Year] = &s
		}
	}
	return toppers
}

// SearchByName returns the students whose name contains q, ignoring case.
func SearchByName(students []models.Student, q string) []models.Student {
	q = strings.ToLower(q)
	out := []models.Student{}
	for _, s := range students {
		if strings.Contains(strings.ToLower(s.Name), q) {
			out = append(out, s)
		}
	}
	return out
}

// LowAttendance groups students below threshold by year and then division.
// A missing percentage counts as 0. Order within a group follows the input.
func LowAttendance(students []models.Student, threshold float64) map[int]map[string][]models.Student {
	groups := make(map[int]map[string][]models.Student)
	for _, s := range students {
		if s.AttendanceOrZero() >= threshold {
			continue
		}
		if groups[s.Year] == nil {
			groups[s.Year] = make(map[string][]models.Student)
		}
		groups[s.Year][s.Division] = append(groups[s.Year][s.Division], s)
	}
	return groups
}

// AverageAttendanceByYear is the mean attendance percentage per year 1..4,
// over the students that have one. Years with none report 0.
func AverageAttendanceByYear(students []models.Student) map[int]float64 {
	sums := map[int]float64{1: 0, 2: 0, 3: 0, 4: 0}
	counts := make(map[int]int)
	for _, s := range students {
		if !validYear(s.Year) || s.AttendancePercentage == nil {
			continue
		}
		sums[s.Year] += *s.AttendancePercentage
		counts[s.Year]++
	}
	for year, n := range counts {
		sums[year] /= float64(n)
	}
	return sums
}

// PassFail counts, per year 1..4, students whose average reaches passMark.
// A missing average is a fail.
func PassFail(students []models.Student, passMark float64) map[int]models.PassFail {
	pf := map[int]models.PassFail{1: {}, 2: {}, 3: {}, 4: {}}
	for _, s := range students {
		if !validYear(s.Year) {
			continue
		}
		cur := pf[s.Year]
		if s.Average != nil && *s.Average >= passMark {
			cur.Pass++
		} else {
			cur.Fail++
		}
		pf[s.Year] = cur
	}
	return pf
}

// Filter narrows a list. Zero-value fields do not filter.
type Filter struct {
	Year          int
	Division      string
	MinAttendance *float64
	MinAverage    *float64
}

// Apply returns the students matching every set field of f.
func (f Filter) Apply(students []models.Student) []models.Student {
	out := make([]models.Student, 0, len(students))
	for _, s := range students {
		if f.Year != 0 && s.Year != f.Year {
			continue
		}
		if f.Division != "" && !strings.EqualFold(s.Division, f.Division) {
			continue
		}
		if f.MinAttendance != nil && (s.AttendancePercentage == nil || *s.AttendancePercentage < *f.MinAttendance) {
			continue
		}
		if f.MinAverage != nil && (s.Average == nil || *s.Average < *f.MinAverage) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Sort keys accepted by SortBy.
const (
	SortByName       = "name"
	SortByPRN        = "prn"
	SortByYear       = "year"
	SortByAttendance = "attendance"
	SortByAverage    = "average"
)

// SortBy orders students in place. name, prn and year sort ascending;
// attendance and average sort descending with missing values as 0.
// The sort is stable and an unknown key leaves the order as is.
func SortBy(students []models.Student, key string) {
	var less func(a, b models.Student) bool
	switch key {
	case SortByName:
		less = func(a, b models.Student) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case SortByPRN:
		less = func(a, b models.Student) bool { return a.PRN < b.PRN }
	case SortByYear:
		less = func(a, b models.Student) bool { return a.Year < b.Year }
	case SortByAttendance:
		less = func(a, b models.Student) bool { return a.AttendanceOrZero() > b.AttendanceOrZero() }
	case SortByAverage:
		less = func(a, b models.Student) bool { return a.AverageOrZero() > b.AverageOrZero() }
	default:
		return
	}
	sort.SliceStable(students, func(i, j int) bool { return less(students[i], students[j]) })
}
