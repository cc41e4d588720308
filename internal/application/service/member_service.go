package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"kasir-pos-backend/internal/domain/entity"
	"kasir-pos-backend/internal/domain/repository"
	"kasir-pos-backend/pkg/apperror"
	"kasir-pos-backend/pkg/pagination"
)

// MemberService handles loyalty member management. Point balances are only
// ever changed by the checkout; this service covers the admin side.
type MemberService struct {
	memberRepo repository.MemberRepository
}

// NewMemberService creates a new member service
func NewMemberService(memberRepo repository.MemberRepository) *MemberService {
	return &MemberService{memberRepo: memberRepo}
}

// CreateMemberInput represents the create member input
type CreateMemberInput struct {
	Code    string
	Name    string
	Phone   *string
	Email   *string
	Address *string
}

// CreateMember registers a new loyalty member
func (s *MemberService) CreateMember(ctx context.Context, input *CreateMemberInput) (*entity.Member, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, apperror.NewBadRequestError("Member code is required")
	}

	existing, err := s.memberRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError(fmt.Sprintf("Member code %s already exists", code))
	}

	member := &entity.Member{
		Code:    code,
		Name:    input.Name,
		Phone:   input.Phone,
		Email:   input.Email,
		Address: input.Address,
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// UpdateMemberInput represents the update member input; nil fields are left unchanged
type UpdateMemberInput struct {
	Name    *string
	Phone   *string
	Email   *string
	Address *string
}

// UpdateMember updates a member's contact details
func (s *MemberService) UpdateMember(ctx context.Context, id uuid.UUID, input *UpdateMemberInput) (*entity.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, apperror.NewNotFoundError("Member")
	}

	if input.Name != nil {
		member.Name = *input.Name
	}
	if input.Phone != nil {
		member.Phone = input.Phone
	}
	if input.Email != nil {
		member.Email = input.Email
	}
	if input.Address != nil {
		member.Address = input.Address
	}

	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// GetMember retrieves a member by ID
func (s *MemberService) GetMember(ctx context.Context, id uuid.UUID) (*entity.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, apperror.NewNotFoundError("Member")
	}
	return member, nil
}

// DeleteMember removes a member
func (s *MemberService) DeleteMember(ctx context.Context, id uuid.UUID) error {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if member == nil {
		return apperror.NewNotFoundError("Member")
	}
	return s.memberRepo.Delete(ctx, id)
}

// ListMembers lists members with filtering
func (s *MemberService) ListMembers(ctx context.Context, params *repository.MemberFilterParams) (*pagination.PaginatedResult[entity.Member], error) {
	members, total, err := s.memberRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(members, pag), nil
}

// ListPointHistory lists a member's point history entries
func (s *MemberService) ListPointHistory(ctx context.Context, memberID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.MemberPointEntry], error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, apperror.NewNotFoundError("Member")
	}

	entries, total, err := s.memberRepo.ListPointEntries(ctx, memberID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(entries, pag), nil
}
