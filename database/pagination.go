package database

import (
	"math"
	"strings"

	"gorm.io/gorm"
)

// likeEscaper turns user input into a literal LIKE operand.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern returns a %query% pattern with wildcards escaped. Case is
// folded by the store, on both sides of the LIKE.
func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}

// containsAny restricts db to rows where any of columns contains query,
// ignoring case. An empty query leaves db unfiltered.
func containsAny(db *gorm.DB, query string, columns ...string) *gorm.DB {
	if query == "" || len(columns) == 0 {
		return db
	}

	pattern := containsPattern(query)
	clauses := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, column := range columns {
		clauses = append(clauses, "LOWER("+column+`) LIKE LOWER(?) ESCAPE '\'`)
		args = append(args, pattern)
	}
	return db.Where(strings.Join(clauses, " OR "), args...)
}

// pageOffset returns pageIndex*pageSize. ok is false when the offset does not
// fit in an int, i.e. the page lies past any possible result.
func pageOffset(pageIndex, pageSize int) (offset int, ok bool) {
	if pageIndex < 0 {
		pageIndex = 0
	}
	if pageSize > 0 && pageIndex > math.MaxInt/pageSize {
		return 0, false
	}
	return pageIndex * pageSize, true
}

// paginate applies offset pagination: skip offset rows, take pageSize.
func paginate(db *gorm.DB, offset, pageSize int) *gorm.DB {
	return db.Offset(offset).Limit(pageSize)
}

// PageCount is ceil(total / pageSize), zero for a non-positive page size.
func PageCount(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	size := int64(pageSize)
	return int((total + size - 1) / size)
}
