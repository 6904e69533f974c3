// AngelaMos | 2026
// pgarray.go

package core

import (
	"database/sql/driver"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
)

// StringArray maps a Postgres text[] or uuid[] column through database/sql.
type StringArray []string

func (a *StringArray) Scan(src any) error {
	if src == nil {
		*a = StringArray{}
		return nil
	}

	var out []string
	if err := pgtype.NewMap().SQLScanner(&out).Scan(src); err != nil {
		return fmt.Errorf("scan string array: %w", err)
	}

	*a = out
	return nil
}

func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "{}", nil
	}

	buf, err := pgtype.NewMap().Encode(
		pgtype.TextArrayOID,
		pgtype.TextFormatCode,
		[]string(a),
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("encode string array: %w", err)
	}

	return string(buf), nil
}

// Contains reports whether v is an element of a.
func (a StringArray) Contains(v string) bool {
	for _, s := range a {
		if s == v {
			return true
		}
	}
	return false
}
