package db

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"studentcp-server-go/logging"
	"studentcp-server-go/models"
)

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestReadStudentsXLSX(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"PRN", "Name", "Year", "Division", "Present", "Total", "M1", "M2", "Notes"},
		{1001, "Asha", 2, "A", 30, 40, 70, 80, "ignored"},
		{"", "No PRN", 1},
		{"abc", "Bad PRN", 1},
		{1002, ""},
		{1003, "Ravi", 1, "B"},
	})

	students, err := ReadStudentsXLSX(buf, logging.Discard())
	require.NoError(t, err)
	require.Len(t, students, 2)

	asha := students[0]
	assert.Equal(t, int64(1001), asha.PRN)
	assert.Equal(t, "Asha", asha.Name)
	assert.Equal(t, 2, asha.Year)
	assert.Equal(t, "A", asha.Division)
	assert.Equal(t, 30, *asha.Present)
	assert.Equal(t, 40, *asha.Total)
	assert.Equal(t, []float64{70, 80}, asha.Marks)
	assert.Nil(t, asha.AttendancePercentage, "derived fields are computed by the store")

	ravi := students[1]
	assert.Nil(t, ravi.Present)
	assert.Empty(t, ravi.Marks)
}

func TestReadStudentsXLSXErrors(t *testing.T) {
	_, err := ReadStudentsXLSX(bytes.NewBufferString("not a workbook"), logging.Discard())
	assert.Error(t, err)

	_, err = ReadStudentsXLSX(workbook(t, [][]interface{}{{"name"}, {"Asha"}}), logging.Discard())
	assert.EqualError(t, err, "header row has no prn column")

	students, err := ReadStudentsXLSX(workbook(t, nil), logging.Discard())
	require.NoError(t, err)
	assert.Empty(t, students)
}

func TestWriteStudentsXLSXRoundTrip(t *testing.T) {
	in := []models.Student{
		{PRN: 1, Name: "Asha", RollNo: 4, Year: 1, Division: "A", Present: intp(9), Total: intp(10), Marks: []float64{50, 70, 90}},
		{PRN: 2, Name: "Ravi", Year: 3},
	}
	for i := range in {
		in[i].Recompute()
	}

	var buf bytes.Buffer
	require.NoError(t, WriteStudentsXLSX(&buf, in))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, []string{"prn", "name", "rollno", "year", "division", "present", "total", "attendancePercentage", "m1", "m2", "m3", "average"}, rows[0])

	out, err := ReadStudentsXLSX(bytes.NewReader(buf.Bytes()), logging.Discard())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, in[0].PRN, out[0].PRN)
	assert.Equal(t, 4, out[0].RollNo)
	assert.Equal(t, in[0].Marks, out[0].Marks)
	assert.Equal(t, 9, *out[0].Present)
	assert.Equal(t, "Ravi", out[1].Name)
	assert.Nil(t, out[1].Total)
}
