package database

import (
	"database/sql"
	"strings"
	"time"
)

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func columnList(cols []string) string {
	return strings.Join(cols, ", ")
}
