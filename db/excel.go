package db

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"studentcp-server-go/models"
)

const exportSheet = "Students"

// markColumn matches mark headers such as "m1", "M2" or "mark3".
var markColumn = regexp.MustCompile(`^(m|mark)\d+$`)

// ReadStudentsXLSX parses the first sheet of a workbook. The first row is a
// header naming the columns (prn, name, rollno, year, division, present,
// total, m1..mN); other columns are ignored. Rows without a PRN or a name are
// skipped. Derived fields are left for the store to compute.
func ReadStudentsXLSX(r io.Reader, logger logrus.FieldLogger) ([]models.Student, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "opening excel file")
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.WithError(err).Warn("Error closing excel file")
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("excel file does not contain any sheets")
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, errors.Wrapf(err, "reading rows from sheet %s", sheetName)
	}
	if len(rows) == 0 {
		return []models.Student{}, nil
	}

	header := make(map[string]int)
	var markCols []int
	for i, h := range rows[0] {
		h = strings.ToLower(strings.TrimSpace(h))
		if markColumn.MatchString(h) {
			markCols = append(markCols, i)
			continue
		}
		header[h] = i
	}
	if _, ok := header["prn"]; !ok {
		return nil, errors.New("header row has no prn column")
	}

	cell := func(row []string, name string) string {
		i, ok := header[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	students := make([]models.Student, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		prn, err := strconv.ParseInt(cell(row, "prn"), 10, 64)
		name := cell(row, "name")
		if err != nil || name == "" {
			logger.WithField("row", line).Warn("Skipping row without a valid PRN or name")
			continue
		}

		st := models.Student{
			PRN:      prn,
			Name:     name,
			Division: cell(row, "division"),
		}
		st.RollNo, _ = strconv.Atoi(cell(row, "rollno"))
		st.Year, _ = strconv.Atoi(cell(row, "year"))
		if v, err := strconv.Atoi(cell(row, "present")); err == nil {
			st.Present = &v
		}
		if v, err := strconv.Atoi(cell(row, "total")); err == nil {
			st.Total = &v
		}
		if len(markCols) > 0 {
			st.Marks = []float64{}
			for _, c := range markCols {
				if c >= len(row) {
					continue
				}
				if m, err := strconv.ParseFloat(strings.TrimSpace(row[c]), 64); err == nil {
					st.Marks = append(st.Marks, m)
				}
			}
		}
		students = append(students, st)
	}
	return students, nil
}

// WriteStudentsXLSX writes students to w as a single-sheet workbook whose
// header row ReadStudentsXLSX understands.
func WriteStudentsXLSX(w io.Writer, students []models.Student) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return errors.Wrap(err, "naming sheet")
	}

	maxMarks := 0
	for _, st := range students {
		if len(st.Marks) > maxMarks {
			maxMarks = len(st.Marks)
		}
	}

	header := []interface{}{"prn", "name", "rollno", "year", "division", "present", "total", "attendancePercentage"}
	for i := 1; i <= maxMarks; i++ {
		header = append(header, fmt.Sprintf("m%d", i))
	}
	header = append(header, "average")
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return errors.Wrap(err, "writing header")
	}

	for i, st := range students {
		row := []interface{}{st.PRN, st.Name, st.RollNo, st.Year, st.Division, intOrBlank(st.Present), intOrBlank(st.Total), floatOrBlank(st.AttendancePercentage)}
		for j := 0; j < maxMarks; j++ {
			if j < len(st.Marks) {
				row = append(row, st.Marks[j])
			} else {
				row = append(row, "")
			}
		}
		row = append(row, floatOrBlank(st.Average))

		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "computing cell name")
		}
		if err := f.SetSheetRow(exportSheet, cellName, &row); err != nil {
			return errors.Wrapf(err, "writing row for student %d", st.PRN)
		}
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "writing workbook")
	}
	return nil
}

func intOrBlank(v *int) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func floatOrBlank(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
