package table

import "strings"

// Role is the meaning of a table column.
type Role int

const (
	RoleCompany Role = iota
	RoleTitle
	RoleLocation
	RoleAge
	numRoles
)

func (r Role) String() string {
	switch r {
	case RoleCompany:
		return "company"
	case RoleTitle:
		return "title"
	case RoleLocation:
		return "location"
	case RoleAge:
		return "age"
	default:
		return "unknown"
	}
}

// roleKeywords maps header text to column roles. A header cell takes the
// first role whose keyword it contains; order matters for cells like
// "Date Posted" that could match more than one.
var roleKeywords = []struct {
	role     Role
	keywords []string
}{
	{RoleCompany, []string{"company"}},
	{RoleTitle, []string{"role", "position"}},
	{RoleLocation, []string{"location", "dates"}},
	{RoleAge, []string{"age", "posted", "updated"}},
}

// headerTokens are literal header cell values that must never be read as data.
var headerTokens = map[string]bool{
	"company":     true,
	"role":        true,
	"position":    true,
	"location":    true,
	"dates":       true,
	"age":         true,
	"posted":      true,
	"date posted": true,
	"updated":     true,
	"application": true,
	"link":        true,
	"apply":       true,
}

func isHeaderToken(s string) bool {
	return headerTokens[strings.ToLower(strings.TrimSpace(s))]
}

// Columns holds the cell index of each role, or -1 when the table lacks it.
type Columns [numRoles]int

// isHeaderLine reports whether a line looks like a listing table header.
func isHeaderLine(line string) bool {
	l := strings.ToLower(line)
	return strings.Contains(l, "company") &&
		strings.Contains(l, "role") &&
		(strings.Contains(l, "location") || strings.Contains(l, "dates"))
}

// resolveColumns assigns roles to header cells. It fails unless both the
// company and the title column are found.
func resolveColumns(headers []string) (Columns, bool) {
	var cols Columns
	for i := range cols {
		cols[i] = -1
	}

	for i, h := range headers {
		text := strings.ToLower(stripFormatting(h))
		for _, rk := range roleKeywords {
			if cols[rk.role] != -1 || !containsAny(text, rk.keywords) {
				continue
			}
			cols[rk.role] = i
			break
		}
	}

	return cols, cols[RoleCompany] != -1 && cols[RoleTitle] != -1
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// cell returns the raw cell for role, or "" when absent or out of range.
func (c Columns) cell(cells []string, r Role) string {
	i := c[r]
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i]
}
