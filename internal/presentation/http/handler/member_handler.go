package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"kasir-pos-backend/internal/application/service"
	"kasir-pos-backend/internal/domain/repository"
	"kasir-pos-backend/internal/presentation/http/dto/request"
	"kasir-pos-backend/internal/presentation/http/dto/response"
)

// MemberHandler handles loyalty member HTTP requests
type MemberHandler struct {
	memberService *service.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// Create handles registering a member
func (h *MemberHandler) Create(c *gin.Context) {
	var req request.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.memberService.CreateMember(c.Request.Context(), &service.CreateMemberInput{
		Code:    req.Code,
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Member created successfully", member)
}

// Get handles getting a single member
func (h *MemberHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid member ID")
		return
	}

	member, err := h.memberService.GetMember(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Member retrieved successfully", member)
}

// List handles listing members
func (h *MemberHandler) List(c *gin.Context) {
	params := &repository.MemberFilterParams{
		Pagination: pageParams(c),
		Search:     c.Query("search"),
	}

	result, err := h.memberService.ListMembers(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Members retrieved successfully", result)
}

// Update handles updating a member's contact details
func (h *MemberHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid member ID")
		return
	}

	var req request.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.memberService.UpdateMember(c.Request.Context(), id, &service.UpdateMemberInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Member updated successfully", member)
}

// Delete handles deleting a member
func (h *MemberHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid member ID")
		return
	}

	if err := h.memberService.DeleteMember(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Member deleted successfully", nil)
}

// PointHistory handles listing a member's point ledger entries
func (h *MemberHandler) PointHistory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid member ID")
		return
	}

	result, err := h.memberService.ListPointHistory(c.Request.Context(), id, pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Point history retrieved successfully", result)
}
