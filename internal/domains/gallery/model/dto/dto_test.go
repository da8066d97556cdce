package dto_test

import (
	"testing"

	"stylebook/internal/domains/gallery/model"
	"stylebook/internal/domains/gallery/model/dto"
	gModel "stylebook/shared/model"
	"stylebook/shared/timezone"

	"github.com/stretchr/testify/assert"
)

func TestCreateStyleRequest_ToModel(t *testing.T) {
	serviceID := "service-id"
	req := dto.CreateStyleRequest{
		StyleName: "Textured Crop",
		ServiceID: &serviceID,
		Caption:   "Low maintenance, high texture",
		Images:    []string{"https://example.com/crop-front.jpg", "https://example.com/crop-side.jpg"},
		Featured:  true,
	}

	userID := "admin-id"
	style := req.ToModel(userID)

	assert.NotEmpty(t, style.ID, "expected ID to be generated")
	assert.Equal(t, req.StyleName, style.StyleName)
	assert.Equal(t, req.ServiceID, style.ServiceID)
	assert.Equal(t, req.Caption, style.Caption)
	assert.Equal(t, req.Images, style.Images)
	assert.True(t, style.Featured)
	assert.Equal(t, userID, style.CreatedBy)
	assert.Equal(t, userID, style.ModifiedBy)
	assert.False(t, style.CreatedAt.IsZero(), "expected CreatedAt to be set")
	assert.False(t, style.ModifiedAt.IsZero(), "expected ModifiedAt to be set")
}

func TestStyleResponse_FromModel(t *testing.T) {
	now := timezone.Now()
	styleModel := model.Style{
		ID:        "style-id",
		StyleName: "Classic Pompadour",
		Caption:   "Volume up top, tight sides",
		Images:    []string{"https://example.com/pompadour.jpg"},
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  "admin-id",
			ModifiedBy: "admin-id",
		},
	}

	var res dto.StyleResponse
	res.FromModel(styleModel)

	assert.Equal(t, styleModel.ID, res.ID)
	assert.Equal(t, styleModel.StyleName, res.StyleName)
	assert.Nil(t, res.ServiceID)
	assert.Equal(t, styleModel.Caption, res.Caption)
	assert.Equal(t, styleModel.Images, res.Images)
	assert.False(t, res.Featured)
}

func TestGetStylesResponse_FromModels(t *testing.T) {
	models := []model.Style{
		{ID: "style-1", StyleName: "Buzz Cut"},
		{ID: "style-2", StyleName: "French Crop"},
	}

	var res dto.GetStylesResponse
	res.FromModels(models, 12, 10)

	assert.Len(t, res.Styles, 2)
	assert.Equal(t, 12, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
	assert.Equal(t, "Buzz Cut", res.Styles[0].StyleName)
}
