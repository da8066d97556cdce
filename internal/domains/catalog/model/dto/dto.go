package dto

import (
	"stylebook/internal/domains/catalog/model"
	"stylebook/shared"
	gDto "stylebook/shared/dto"
	gModel "stylebook/shared/model"
	"stylebook/shared/timezone"

	"github.com/google/uuid"
)

type CreateServiceRequest struct {
	Name            string  `json:"name"             validate:"required,max=100"`
	Price           float64 `json:"price"            validate:"required,gte=0"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,gte=5,lte=240"`
	Description     string  `json:"description"      validate:"omitempty,max=500"`
	Active          *bool   `json:"active"           validate:"omitempty"`
}

func (c *CreateServiceRequest) ToModel(user string) model.Service {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Service{
		ID:              uuid.NewString(),
		Name:            c.Name,
		Price:           c.Price,
		DurationMinutes: c.DurationMinutes,
		Description:     c.Description,
		Active:          active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateServiceRequest struct {
	Name            string   `db:"name"             json:"name"             validate:"omitempty,max=100"`
	Price           *float64 `db:"price"            json:"price"            validate:"omitempty,gte=0"`
	DurationMinutes *int     `db:"duration_minutes" json:"duration_minutes" validate:"omitempty,gte=5,lte=240"`
	Description     string   `db:"description"      json:"description"      validate:"omitempty,max=500"`
	Active          *bool    `db:"active"           json:"active"           validate:"omitempty"`
}

// PublicServiceResponse is the read-only projection served to the booking
// client. No metadata, active services only.
type PublicServiceResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
	Description     string  `json:"description,omitempty"`
	Active          bool    `json:"active"`
}

func (r *PublicServiceResponse) FromModel(model model.Service) {
	r.ID = model.ID
	r.Name = model.Name
	r.Price = model.Price
	r.DurationMinutes = model.DurationMinutes
	r.Description = model.Description
	r.Active = model.Active
}

type ServiceResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
	Description     string  `json:"description,omitempty"`
	Active          bool    `json:"active"`
	gDto.Metadata
}

func (r *ServiceResponse) FromModel(model model.Service) {
	r.ID = model.ID
	r.Name = model.Name
	r.Price = model.Price
	r.DurationMinutes = model.DurationMinutes
	r.Description = model.Description
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetServicesResponse struct {
	Services  []ServiceResponse `json:"services"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetServicesResponse) FromModels(models []model.Service, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Services = make([]ServiceResponse, len(models))
	for i, mod := range models {
		r.Services[i].FromModel(mod)
	}
}
