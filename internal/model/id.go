package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewID builds a record id such as "R1741312800000-1f3a9c2e". The millisecond prefix
// keeps ids of the same kind sortable by creation time.
func NewID(prefix string, now time.Time) string {
	return fmt.Sprintf("%s%d-%s", prefix, now.UnixMilli(), uuid.NewString()[:8])
}

// DateOf formats t as a plain YYYY-MM-DD day.
func DateOf(t time.Time) string { return t.Format("2006-01-02") }

// StampOf formats t as the lexically sortable attendance timestamp.
func StampOf(t time.Time) string { return t.Format("2006-01-02 15:04:05") }
