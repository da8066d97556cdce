package dto

import (
	"stylebook/internal/domains/staff/model"
	"stylebook/shared"
	"stylebook/shared/constant"
	gDto "stylebook/shared/dto"
	gModel "stylebook/shared/model"
	"stylebook/shared/timezone"

	"github.com/google/uuid"
)

type CreateStaffRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=8"`
	Role     string `json:"role"      validate:"omitempty,oneof=owner admin"`
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
}

func (r *CreateStaffRequest) ToModel(username, hashedPassword string) model.Staff {
	role := r.Role
	if role == "" {
		role = constant.RoleAdmin
	}

	return model.Staff{
		ID:       uuid.NewString(),
		Email:    r.Email,
		Password: hashedPassword,
		Role:     role,
		FullName: r.FullName,
		Active:   true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  username,
			ModifiedBy: username,
		},
	}
}

type StaffResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	FullName  string `json:"full_name"`
	LastLogin string `json:"last_login,omitempty"`
	Active    bool   `json:"active"`
	gDto.Metadata
}

func (r *StaffResponse) FromModel(model model.Staff) {
	r.ID = model.ID
	r.Email = model.Email
	r.Role = model.Role
	r.FullName = model.FullName
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)

	if model.LastLogin != nil {
		r.LastLogin = model.LastLogin.Format(constant.DateFormat)
	}
}

type UpdateStaffRequest struct {
	Role     string `db:"role"      json:"role"      validate:"omitempty,oneof=owner admin"`
	FullName string `db:"full_name" json:"full_name" validate:"omitempty,min=2,max=100"`
	Active   *bool  `db:"active"    json:"active"    validate:"omitempty"`
}

type GetStaffResponse struct {
	Staff     []StaffResponse `json:"staff"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetStaffResponse) FromModels(models []model.Staff, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Staff = make([]StaffResponse, len(models))
	for i, mod := range models {
		r.Staff[i].FromModel(mod)
	}
}
