package db

import (
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"studentcp-server-go/models"
)

var (
	// ErrNotFound is returned when no record matches a PRN.
	ErrNotFound = errors.New("student not found")
	// ErrInvalidPatch is returned when an update body is not a JSON object
	// that fits the Student fields.
	ErrInvalidPatch = errors.New("invalid student patch")
)

// StudentStore keeps every student in memory and rewrites the backing JSON
// file after each mutation. Lookups scan the list in order.
type StudentStore struct {
	path   string
	logger logrus.FieldLogger

	mu       sync.RWMutex
	students []models.Student
}

// NewStudentStore loads the records held in path.
func NewStudentStore(path string, logger logrus.FieldLogger) *StudentStore {
	s := &StudentStore{
		path:     path,
		logger:   logger,
		students: loadJSONList[models.Student](path, logger),
	}
	logger.WithFields(logrus.Fields{"file": path, "count": len(s.students)}).Info("Loaded students")
	return s
}

// save must be called with mu held. Write failures are logged only; the
// in-memory list stays as mutated.
func (s *StudentStore) save() {
	if err := saveJSONList(s.path, s.students); err != nil {
		s.logger.WithError(err).WithField("file", s.path).Error("Error writing file")
	}
}

// All returns a copy of every record in stored order.
func (s *StudentStore) All() []models.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Student, 0, len(s.students))
	for _, st := range s.students {
		out = append(out, st.Clone())
	}
	return out
}

// Count returns the number of records.
func (s *StudentStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.students)
}

// Get returns the first record with the given PRN.
func (s *StudentStore) Get(prn int64) (models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, st := range s.students {
		if st.PRN == prn {
			return st.Clone(), nil
		}
	}
	return models.Student{}, ErrNotFound
}

// Add appends students as given; PRN duplicates are accepted.
func (s *StudentStore) Add(students ...models.Student) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, st := range students {
		st = st.Clone()
		st.Recompute()
		s.students = append(s.students, st)
	}
	s.save()
}

// Update overlays the fields present in patch onto every record with the
// given PRN and returns how many records matched. Fields missing from the
// patch keep their values; arrays are replaced. The file is rewritten even
// when nothing matched.
func (s *StudentStore) Update(prn int64, patch []byte) (int, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(patch, &fields); err != nil || fields == nil {
		return 0, ErrInvalidPatch
	}
	// dry run so a type mismatch cannot leave the list half updated
	var probe models.Student
	if err := json.Unmarshal(patch, &probe); err != nil {
		return 0, errors.Wrap(ErrInvalidPatch, err.Error())
	}
	_, touchesAttendance := fields["total"]
	if _, ok := fields["present"]; ok {
		touchesAttendance = true
	}
	_, touchesMarks := fields["marks"]

	s.mu.Lock()
	defer s.mu.Unlock()

	matched := 0
	for i, st := range s.students {
		if st.PRN != prn {
			continue
		}
		merged := st.Clone()
		if err := json.Unmarshal(patch, &merged); err != nil {
			return matched, errors.Wrap(ErrInvalidPatch, err.Error())
		}
		// a nulled input drops the value derived from it
		if touchesAttendance {
			if merged.Total == nil {
				merged.AttendancePercentage = nil
			} else {
				merged.RecomputeAttendance()
			}
		}
		if touchesMarks {
			if merged.Marks == nil {
				merged.Average = nil
			} else {
				merged.RecomputeAverage()
			}
		}
		s.students[i] = merged
		matched++
	}
	s.save()
	return matched, nil
}

// Delete removes every record with the given PRN and returns them.
func (s *StudentStore) Delete(prn int64) []models.Student {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]models.Student, 0, len(s.students))
	var removed []models.Student
	for _, st := range s.students {
		if st.PRN == prn {
			removed = append(removed, st)
		} else {
			kept = append(kept, st)
		}
	}
	s.students = kept
	s.save()
	return removed
}

// Clear removes every record and returns how many there were.
func (s *StudentStore) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.students)
	s.students = []models.Student{}
	s.save()
	return n
}

// MarkAttendance records one lecture for the first student with the given
// PRN: total always goes up by one, present only when present is true.
func (s *StudentStore) MarkAttendance(prn int64, present bool) (models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.students {
		st := &s.students[i]
		if st.PRN != prn {
			continue
		}
		total, attended := 1, 0
		if st.Total != nil {
			total = *st.Total + 1
		}
		if st.Present != nil {
			attended = *st.Present
		}
		if present {
			attended++
		}
		st.Total = &total
		st.Present = &attended
		st.RecomputeAttendance()
		s.save()
		return st.Clone(), nil
	}
	return models.Student{}, ErrNotFound
}
