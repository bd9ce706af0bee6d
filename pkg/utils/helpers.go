package utils

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"
)

func NullStringToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func NullTimeToEmptyString(nt sql.NullTime) string {
	if nt.Valid {
		return nt.Time.Local().Format("2006-01-02 15:04:05")
	}
	return ""
}

func NullTimeToPtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		t := nt.Time
		return &t
	}
	return nil
}

func NullInt64ToUint64Ptr(ni sql.NullInt64) *uint64 {
	if ni.Valid {
		v := uint64(ni.Int64)
		return &v
	}
	return nil
}

func StringPtr(s string) *string {
	return &s
}

func ParseUint64Slice(s []string) ([]uint64, error) {
	if len(s) == 0 {
		return nil, nil
	}

	result := make([]uint64, 0, len(s))
	for _, v := range s {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, err
		}
		result = append(result, id)
	}

	return result, nil
}

// FormatSecondsToHumanReadable — "1ч 23м" для дашборда.
func FormatSecondsToHumanReadable(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dч %dм", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dм", m)
	}
	return fmt.Sprintf("%dс", seconds)
}
