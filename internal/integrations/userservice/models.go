package userservice

// FamilyMember член семьи пользователя (на кого оформляется визит)
type FamilyMember struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"user_id"` // владелец аккаунта (пациент)
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	BirthDate    string `json:"birth_date,omitempty"` // YYYY-MM-DD
	Relationship string `json:"relationship,omitempty"`
}

// BelongsTo returns true if the member is attached to the given patient account
func (m *FamilyMember) BelongsTo(patientID int64) bool {
	return m.UserID == patientID
}

// ErrorResponse модель ошибки от UserService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
