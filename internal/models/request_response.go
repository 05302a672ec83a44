package models

// Request models
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateEntryRequest struct {
	CategoryID  string      `json:"categoryId"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      EntryStatus `json:"status"`
	Priority    Priority    `json:"priority"`
	EquipmentID string      `json:"equipmentId,omitempty"`
	LocationID  string      `json:"locationId,omitempty"`
}

type CancelEntryRequest struct {
	Reason      string `json:"reason"`
	CancelledBy string `json:"cancelledBy,omitempty"`
}

type CreateHandoverRequest struct {
	ShiftDate           string    `json:"shiftDate"` // YYYY-MM-DD
	ShiftType           ShiftType `json:"shiftType"`
	OngoingWorks        string    `json:"ongoingWorks,omitempty"`
	SpecialInstructions string    `json:"specialInstructions,omitempty"`
	Incidents           string    `json:"incidents,omitempty"`
}

type AcceptHandoverRequest struct {
	Notes string `json:"notes,omitempty"`
}

type CreateCategoryRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SortOrder   int    `json:"sortOrder"`
}

// UpdateCategoryRequest is a partial patch; nil fields are left unchanged
type UpdateCategoryRequest struct {
	Code        *string `json:"code,omitempty"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
	SortOrder   *int    `json:"sortOrder,omitempty"`
}

type MoveCategoryRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

// ReferenceRequest creates an equipment or location record
type ReferenceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UpdateReferenceRequest is a partial patch of an equipment or location record
type UpdateReferenceRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// Response models
type AuthResponse struct {
	Status    string `json:"status"`
	UserID    string `json:"userId,omitempty"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	IsAdmin   bool   `json:"isAdmin,omitempty"`
	Token     string `json:"token,omitempty"`
	ExpiresIn int    `json:"expiresIn,omitempty"`
}

type EntryResponse struct {
	Status string        `json:"status"`
	Entry  *JournalEntry `json:"entry"`
}

type EntriesResponse struct {
	Status  string         `json:"status"`
	Total   int            `json:"total"`
	Entries []JournalEntry `json:"entries"`
}

type HandoverResponse struct {
	Status   string         `json:"status"`
	Handover *ShiftHandover `json:"handover"`
}

type HandoversResponse struct {
	Status    string          `json:"status"`
	Total     int             `json:"total"`
	Handovers []ShiftHandover `json:"handovers"`
}

type CategoriesResponse struct {
	Status     string     `json:"status"`
	Categories []Category `json:"categories"`
}

type CategoryResponse struct {
	Status   string    `json:"status"`
	Category *Category `json:"category"`
}

type EquipmentListResponse struct {
	Status    string      `json:"status"`
	Equipment []Equipment `json:"equipment"`
}

type EquipmentResponse struct {
	Status    string     `json:"status"`
	Equipment *Equipment `json:"equipment"`
}

type LocationsResponse struct {
	Status    string     `json:"status"`
	Locations []Location `json:"locations"`
}

type LocationResponse struct {
	Status   string    `json:"status"`
	Location *Location `json:"location"`
}

type IdentityResponse struct {
	Status   string   `json:"status"`
	Identity Identity `json:"identity"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
