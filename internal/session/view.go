package session

import (
	"sort"
	"strconv"
	"strings"

	"github.com/gyesanghoe/gyesanghoe/internal/model"
)

// Grades returns the distinct grade values present in the member
// collection, sorted ascending. The list drives both the filter chips
// and the organizational-chart rows.
func Grades(members []model.Member) []int {
	seen := make(map[int]bool)
	var grades []int
	for _, m := range members {
		if !seen[m.Grade] {
			seen[m.Grade] = true
			grades = append(grades, m.Grade)
		}
	}
	sort.Ints(grades)
	return grades
}

// FilterMembers applies the members-page search and grade filter. A
// member matches when the query is empty or appears in the name,
// company (case-insensitive), or the decimal form of the grade, and the
// grade filter is "all" or equals the member's grade exactly.
func FilterMembers(members []model.Member, query, gradeFilter string) []model.Member {
	q := strings.ToLower(strings.TrimSpace(query))

	filtered := []model.Member{}
	for _, m := range members {
		if !matchesQuery(m, q) {
			continue
		}
		if gradeFilter != GradeFilterAll && gradeFilter != strconv.Itoa(m.Grade) {
			continue
		}
		filtered = append(filtered, m)
	}
	return filtered
}

func matchesQuery(m model.Member, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(m.Name), q) ||
		strings.Contains(strings.ToLower(m.Company), q) ||
		strings.Contains(strconv.Itoa(m.Grade), q)
}
