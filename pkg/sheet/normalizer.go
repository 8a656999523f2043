package sheet

import (
	"strconv"
	"strings"
	"time"
)

// Record is one normalized candidate row. Nil pointers are absent values.
type Record struct {
	SheetRowNumber int
	Nr             *string
	FirstName      string
	LastName       *string
	Role           *string
	Seniority      *string
	Rate           *string
	Skills         *string
	CV             *string
	Guardian       *string
	GuardianEmail  *string
	Availability   *string
	Languages      *string
	LastSyncedAt   time.Time
}

// NormalizeRow converts a raw row into a Record. dataIndex is the 0-based
// position of the row below the header. ok is false for blank rows and
// rows without a name.
func NormalizeRow(row []string, cols ColumnMap, dataIndex int, now time.Time) (rec Record, ok bool) {
	if IsBlank(row) {
		return Record{}, false
	}

	fullName := field(row, cols.FullName)
	if fullName == nil {
		return Record{}, false
	}
	first, last := SplitName(*fullName)

	rec = Record{
		SheetRowNumber: RowNumber(row, cols.Nr, dataIndex),
		Nr:             field(row, cols.Nr),
		FirstName:      first,
		LastName:       last,
		Role:           field(row, cols.Role),
		Seniority:      field(row, cols.Seniority),
		Rate:           field(row, cols.Rate),
		Skills:         field(row, cols.Skills),
		CV:             field(row, cols.CV),
		Guardian:       field(row, cols.Guardian),
		GuardianEmail:  field(row, cols.GuardianMail),
		Availability:   field(row, cols.Availability),
		Languages:      field(row, cols.Languages),
		LastSyncedAt:   now,
	}
	return rec, true
}

// SplitName splits on whitespace runs: the first token is the first name,
// the rest joined by single spaces is the last name (nil if none).
func SplitName(fullName string) (first string, last *string) {
	tokens := strings.Fields(fullName)
	if len(tokens) == 0 {
		return "", nil
	}
	if len(tokens) == 1 {
		return tokens[0], nil
	}
	rest := strings.Join(tokens[1:], " ")
	return tokens[0], &rest
}

// RowNumber prefers the sheet's own numeric Nr column and otherwise falls
// back to the physical sheet row (header is row 1, first data row is 2).
func RowNumber(row []string, nrCol, dataIndex int) int {
	if v := field(row, nrCol); v != nil {
		if n, err := strconv.Atoi(*v); err == nil {
			return n
		}
	}
	return dataIndex + 2
}

func field(row []string, idx int) *string {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	v := strings.TrimSpace(row[idx])
	if v == "" {
		return nil
	}
	return &v
}
