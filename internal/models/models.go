package models

import (
	"time"
)

// User represents a user in the system
type User struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	Password  string    `db:"password" json:"-"` // Password hash, not returned in JSON
	IsAdmin   bool      `db:"is_admin" json:"isAdmin"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Identity is the caller on whose behalf an operation runs
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	IsAdmin     bool   `json:"isAdmin"`
}

// Category is an admin-managed entry category, ordered by SortOrder
type Category struct {
	ID          string    `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	SortOrder   int       `db:"sort_order" json:"sortOrder"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Equipment is a reference record entries can point at
type Equipment struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Location is a reference record entries can point at
type Location struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// EntryStatus is the lifecycle state of a journal entry
type EntryStatus string

const (
	EntryDraft     EntryStatus = "draft"
	EntryActive    EntryStatus = "active"
	EntryCancelled EntryStatus = "cancelled"
)

// Priority of a journal entry
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// JournalEntry is a single timestamped operational log record.
// Category holds the legacy denormalized code; CategoryData is the joined
// reference row when CategoryID is set.
type JournalEntry struct {
	ID           string      `json:"id"`
	Category     string      `json:"category,omitempty"`
	CategoryID   *string     `json:"categoryId,omitempty"`
	CategoryData *Category   `json:"categoryData,omitempty"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Timestamp    time.Time   `json:"timestamp"`
	AuthorID     string      `json:"authorId"`
	Author       string      `json:"author"`
	Status       EntryStatus `json:"status"`
	Priority     Priority    `json:"priority"`
	EquipmentID  *string     `json:"equipmentId,omitempty"`
	Equipment    *Equipment  `json:"equipment,omitempty"`
	LocationID   *string     `json:"locationId,omitempty"`
	Location     *Location   `json:"location,omitempty"`
	CancelledAt  *time.Time  `json:"cancelledAt,omitempty"`
	CancelledBy  *string     `json:"cancelledBy,omitempty"`
	CancelReason *string     `json:"cancelReason,omitempty"`
}

// legacyCategoryLabels names the category codes used before categories
// became a reference table.
var legacyCategoryLabels = map[string]string{
	"equipment_work":   "Работы на оборудовании",
	"relay_protection": "РЗА и телемеханика",
	"team_permits":     "Допуски бригад",
	"emergency":        "Аварийные сообщения",
	"network_outages":  "Отключения в сети",
	"other":            "Прочие события",
}

// CategoryCode returns the joined category code, falling back to the
// legacy stored code.
func (e *JournalEntry) CategoryCode() string {
	if e.CategoryData != nil && e.CategoryData.Code != "" {
		return e.CategoryData.Code
	}
	if e.Category != "" {
		return e.Category
	}
	return "other"
}

// CategoryName resolves the display name of the entry's category: the
// joined reference name first, then the legacy code's label, then the
// literal code.
func (e *JournalEntry) CategoryName() string {
	if e.CategoryData != nil && e.CategoryData.Name != "" {
		return e.CategoryData.Name
	}
	code := e.CategoryCode()
	if label, ok := legacyCategoryLabels[code]; ok {
		return label
	}
	return code
}

// ShiftType is the kind of shift a handover closes
type ShiftType string

const (
	ShiftDay   ShiftType = "day"
	ShiftNight ShiftType = "night"
)

// Valid reports whether s is a known shift type.
func (s ShiftType) Valid() bool {
	return s == ShiftDay || s == ShiftNight
}

// HandoverStatus is the lifecycle state of a shift handover
type HandoverStatus string

const (
	HandoverPending   HandoverStatus = "pending"
	HandoverCompleted HandoverStatus = "completed"
	HandoverCancelled HandoverStatus = "cancelled"
)

// ShiftHandover records one shift's transfer of responsibility
type ShiftHandover struct {
	ID                   string         `db:"id" json:"id"`
	ShiftDate            time.Time      `db:"shift_date" json:"shiftDate"`
	ShiftType            ShiftType      `db:"shift_type" json:"shiftType"`
	OutgoingOperatorID   string         `db:"outgoing_operator_id" json:"outgoingOperatorId"`
	OutgoingOperatorName string         `db:"outgoing_operator_name" json:"outgoingOperatorName"`
	IncomingOperatorID   *string        `db:"incoming_operator_id" json:"incomingOperatorId,omitempty"`
	IncomingOperatorName *string        `db:"incoming_operator_name" json:"incomingOperatorName,omitempty"`
	OngoingWorks         *string        `db:"ongoing_works" json:"ongoingWorks,omitempty"`
	SpecialInstructions  *string        `db:"special_instructions" json:"specialInstructions,omitempty"`
	Incidents            *string        `db:"incidents" json:"incidents,omitempty"`
	HandoverNotes        *string        `db:"handover_notes" json:"handoverNotes,omitempty"`
	Status               HandoverStatus `db:"status" json:"status"`
	HandedOverAt         *time.Time     `db:"handed_over_at" json:"handedOverAt,omitempty"`
	ReceivedAt           *time.Time     `db:"received_at" json:"receivedAt,omitempty"`
	CreatedAt            time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt            time.Time      `db:"updated_at" json:"updatedAt"`
}
