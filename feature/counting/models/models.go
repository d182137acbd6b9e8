package models

import "time"

// Session statuses. A session is created open and closes exactly once;
// closed is terminal.
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Session is one inventory-count session. It exclusively owns its scan
// lines; deleting the session cascades to them.
type Session struct {
	// ID is an opaque identifier generated on creation.
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	Name      string     `gorm:"size:128;not null" json:"name"`
	Status    string     `gorm:"size:16;not null;default:'open';index" json:"status"`
	StartedAt time.Time  `json:"startedAt"`
	ClosedAt  *time.Time `json:"closedAt,omitempty"`

	Lines []ScanLine `gorm:"foreignKey:SessionID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name
func (Session) TableName() string {
	return "count_sessions"
}

// IsOpen reports whether the session accepts scans.
func (s *Session) IsOpen() bool {
	return s.Status == StatusOpen
}

// ScanLine accumulates the scans of one item within one session. The
// (SessionID, ItemCode) pair is unique: repeat scans mutate the existing
// line, they never create a second one.
type ScanLine struct {
	ID uint `gorm:"primaryKey" json:"-"`

	SessionID string `gorm:"size:36;not null;uniqueIndex:idx_scan_lines_session_item,priority:1" json:"sessionId"`
	ItemCode  string `gorm:"size:64;not null;uniqueIndex:idx_scan_lines_session_item,priority:2" json:"itemCode"`

	Description string `json:"description"`
	Mask        string `json:"mask"`

	// Quantity is the accumulated count, at least one label quantity.
	Quantity int `gorm:"not null" json:"quantity"`

	FirstScannedAt time.Time `json:"firstScannedAt"`
	LastScannedAt  time.Time `gorm:"index" json:"lastScannedAt"`
}

// TableName specifies the table name
func (ScanLine) TableName() string {
	return "scan_lines"
}

// VarianceRow compares counted against system quantity for one item.
// Derived, never persisted.
type VarianceRow struct {
	ItemCode        string `json:"itemCode"`
	Description     string `json:"description"`
	Mask            string `json:"mask"`
	SystemQuantity  int    `json:"systemQuantity"`
	CountedQuantity int    `json:"countedQuantity"`
	// Difference is counted minus system; positive means over-count.
	Difference int `json:"difference"`
}

// VarianceSummary aggregates a row sequence. Always recomputed from the
// rows, never maintained as counters.
type VarianceSummary struct {
	TotalItems     int `json:"totalItems"`
	DivergentCount int `json:"divergentCount"`
	CorrectCount   int `json:"correctCount"`
}

// VarianceReport is the ordered row sequence plus its summary.
type VarianceReport struct {
	Rows    []VarianceRow   `json:"rows"`
	Summary VarianceSummary `json:"summary"`
}

// Summarize partitions rows by zero difference.
func Summarize(rows []VarianceRow) VarianceSummary {
	summary := VarianceSummary{TotalItems: len(rows)}
	for _, row := range rows {
		if row.Difference == 0 {
			summary.CorrectCount++
		} else {
			summary.DivergentCount++
		}
	}
	return summary
}
