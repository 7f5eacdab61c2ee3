package schema

import (
	"github.com/sqldef/jsondef/util"
)

// mergeDDLs flattens statement groups in the given order and removes empty
// and repeated statements, keeping the first occurrence. Within a table the
// groups are: index drops, table and column changes, index creations.
func mergeDDLs(groups ...[]string) []string {
	var ddls []string
	for _, group := range groups {
		ddls = append(ddls, group...)
	}
	return util.UniqueStrings(ddls)
}
