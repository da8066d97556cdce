package dto

import (
	"mime/multipart"
	"stylebook/internal/domains/gallery/model"
	"stylebook/shared"
	gDto "stylebook/shared/dto"
	gModel "stylebook/shared/model"
	"stylebook/shared/timezone"

	"github.com/google/uuid"
)

type CreateStyleRequest struct {
	StyleName string   `json:"style_name" validate:"required,min=3,max=100"`
	ServiceID *string  `json:"service_id" validate:"omitempty,uuid"`
	Caption   string   `json:"caption"    validate:"omitempty,max=300"`
	Images    []string `json:"images"     validate:"required,min=1,dive,url"`
	Featured  bool     `json:"featured"`
}

func (c *CreateStyleRequest) ToModel(user string) model.Style {
	return model.Style{
		ID:        uuid.NewString(),
		StyleName: c.StyleName,
		ServiceID: c.ServiceID,
		Caption:   c.Caption,
		Images:    c.Images,
		Featured:  c.Featured,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateStyleRequest struct {
	StyleName string   `db:"style_name" json:"style_name" validate:"omitempty,min=3,max=100"`
	Caption   string   `db:"caption"    json:"caption"    validate:"omitempty,max=300"`
	Images    []string `db:"images"     json:"images"     validate:"omitempty,min=1,dive,url"`
	Featured  *bool    `db:"featured"   json:"featured"   validate:"omitempty"`
}

// PublicStyleResponse is the projection the shop site renders, no metadata.
type PublicStyleResponse struct {
	ID        string   `json:"id"`
	StyleName string   `json:"style_name"`
	ServiceID *string  `json:"service_id,omitempty"`
	Caption   string   `json:"caption,omitempty"`
	Images    []string `json:"images"`
	Featured  bool     `json:"featured"`
}

func (r *PublicStyleResponse) FromModel(model model.Style) {
	r.ID = model.ID
	r.StyleName = model.StyleName
	r.ServiceID = model.ServiceID
	r.Caption = model.Caption
	r.Images = model.Images
	r.Featured = model.Featured
}

type StyleResponse struct {
	ID        string   `json:"id"`
	StyleName string   `json:"style_name"`
	ServiceID *string  `json:"service_id,omitempty"`
	Caption   string   `json:"caption"`
	Images    []string `json:"images"`
	Featured  bool     `json:"featured"`
	gDto.Metadata
}

func (r *StyleResponse) FromModel(model model.Style) {
	r.ID = model.ID
	r.StyleName = model.StyleName
	r.ServiceID = model.ServiceID
	r.Caption = model.Caption
	r.Images = model.Images
	r.Featured = model.Featured
	r.Metadata.FromModel(model.Metadata)
}

type GetStylesResponse struct {
	Styles    []StyleResponse `json:"styles"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetStylesResponse) FromModels(models []model.Style, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Styles = make([]StyleResponse, len(models))
	for i, m := range models {
		r.Styles[i].FromModel(m)
	}
}

type UploadImageRequest struct {
	Image     *multipart.FileHeader `json:"image" validate:"required,mimetypes=image/png image/jpg image/jpeg"`
	ImageFile multipart.File        `json:"-"`
}

type UploadImageResponse struct {
	URL      string `json:"url"`
	FileName string `json:"file_name"`
}

func (r *UploadImageResponse) FromModel(url, fileName string) {
	r.URL = url
	r.FileName = fileName
}

type DeleteImagesRequest struct {
	ImageURLs []string `json:"image_urls" validate:"required,min=1,dive,url"`
}
