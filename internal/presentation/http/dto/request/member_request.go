package request

// CreateMemberRequest represents a loyalty member registration request
type CreateMemberRequest struct {
	Code    string  `json:"code" binding:"required,min=1,max=50"`
	Name    string  `json:"name" binding:"required,min=2,max=255"`
	Phone   *string `json:"phone" binding:"omitempty,max=30"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Address *string `json:"address"`
}

// UpdateMemberRequest represents a member update request; omitted fields are unchanged
type UpdateMemberRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=2,max=255"`
	Phone   *string `json:"phone" binding:"omitempty,max=30"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Address *string `json:"address"`
}
