package sheet

import (
	"fmt"
	"strings"
)

// Logical column names of the candidate sheet.
const (
	ColNr           = "Nr"
	ColFullName     = "Imię i Nazwisko"
	ColRole         = "Rola"
	ColSeniority    = "Seniority"
	ColRate         = "Stawka"
	ColSkills       = "Technologie"
	ColCV           = "CV"
	ColGuardian     = "Opiekun kandydata"
	ColAvailability = "Dostępność"
	ColGuardianMail = "Email opiekuna"
	ColLanguages    = "Języki"
)

// NotFound is the index returned for a column absent from the header.
const NotFound = -1

// FindColumn returns the position of name in header, comparing trimmed,
// case-folded values. Only exact matches count.
func FindColumn(header []string, name string) int {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, h := range header {
		if strings.ToLower(strings.TrimSpace(h)) == want {
			return i
		}
	}
	return NotFound
}

// ColumnMap holds the resolved position of every logical column.
type ColumnMap struct {
	Nr           int
	FullName     int
	Role         int
	Seniority    int
	Rate         int
	Skills       int
	CV           int
	Guardian     int
	Availability int
	GuardianMail int
	Languages    int
}

// ResolveColumns maps the header row once per import. Only the name column
// is mandatory; every other column may be missing from a given sheet.
func ResolveColumns(header []string) (ColumnMap, error) {
	cols := ColumnMap{
		Nr:           FindColumn(header, ColNr),
		FullName:     FindColumn(header, ColFullName),
		Role:         FindColumn(header, ColRole),
		Seniority:    FindColumn(header, ColSeniority),
		Rate:         FindColumn(header, ColRate),
		Skills:       FindColumn(header, ColSkills),
		CV:           FindColumn(header, ColCV),
		Guardian:     FindColumn(header, ColGuardian),
		Availability: FindColumn(header, ColAvailability),
		GuardianMail: FindColumn(header, ColGuardianMail),
		Languages:    FindColumn(header, ColLanguages),
	}
	if cols.FullName == NotFound {
		return cols, fmt.Errorf("sheet: column %q not found in header [%s]", ColFullName, strings.Join(header, " | "))
	}
	return cols, nil
}
