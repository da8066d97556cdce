package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"stylebook/config"
	"stylebook/infras/otel/mocks"
	s3Mocks "stylebook/infras/s3/mocks"
	lookbookMocks "stylebook/internal/domains/gallery/mocks"
	"stylebook/internal/domains/gallery/model"
	"stylebook/internal/domains/gallery/model/dto"
	"stylebook/internal/domains/gallery/service"
	cacheMocks "stylebook/shared/cache/mocks"
	"stylebook/shared/constant"
	"stylebook/shared/failure"
)

type lookbookFixture struct {
	repo  *lookbookMocks.MockLookbook
	cache *cacheMocks.MockRedisCache
	s3    *s3Mocks.MockS3
	svc   service.Lookbook
}

func newLookbookFixture(ctrl *gomock.Controller) *lookbookFixture {
	f := &lookbookFixture{
		repo:  lookbookMocks.NewMockLookbook(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
		s3:    s3Mocks.NewMockS3(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.External.S3.BucketName = "stylebook-media"

	f.svc = service.New(f.repo, cfg, f.cache, mocks.NewOtel(), f.s3)

	// writes invalidate list caches from goroutines
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func TestLookbookService_ListPublic(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newLookbookFixture(ctrl)

	f.cache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss"))

	styles := []model.Style{
		{ID: "style-1", StyleName: "Skin Fade", Featured: true, Images: []string{"https://example.com/fade.jpg"}},
		{ID: "style-2", StyleName: "Buzz Cut", Images: []string{"https://example.com/buzz.jpg"}},
	}

	f.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(styles, nil)

	res, err := f.svc.ListPublic(context.Background())

	assert.NoError(t, err)
	assert.Len(t, res, 2)
	assert.True(t, res[0].Featured)
}

func TestLookbookService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newLookbookFixture(ctrl)

	tests := []struct {
		name      string
		req       dto.CreateStyleRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful creation",
			req: dto.CreateStyleRequest{
				StyleName: "Textured Crop",
				Images:    []string{"https://example.com/crop.jpg"},
			},
			setupMock: func() {
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "repository error",
			req: dto.CreateStyleRequest{
				StyleName: "Textured Crop",
				Images:    []string{"https://example.com/crop.jpg"},
			},
			setupMock: func() {
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-id")
			err := f.svc.Create(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLookbookService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newLookbookFixture(ctrl)

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful get",
			setupMock: func() {
				f.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Style{ID: "style-id", StyleName: "Skin Fade"}, nil)
			},
		},
		{
			name: "style not found",
			setupMock: func() {
				f.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Style{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := f.svc.Get(context.Background(), "style-id")

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "style-id", res.ID)
		})
	}
}

func TestLookbookService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newLookbookFixture(ctrl)

	// image cleanup runs from a goroutine after delete
	f.s3.EXPECT().GetObjectNameFromURL(gomock.Any(), gomock.Any()).Return("fade.jpg").AnyTimes()
	f.s3.EXPECT().DeleteFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful delete removes images",
			setupMock: func() {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Style{ID: "style-id", Images: []string{"https://example.com/fade.jpg"}}, nil)

				f.repo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "style not found",
			setupMock: func() {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Style{}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := f.svc.Delete(context.Background(), "style-id")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLookbookService_UploadImage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newLookbookFixture(ctrl)

	fileHeader := &multipart.FileHeader{Filename: "fade.jpg"}

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful upload",
			setupMock: func() {
				f.s3.EXPECT().
					UploadFile(gomock.Any(), "stylebook-media", model.EntityName, gomock.Any(), fileHeader, "fade.jpg").
					Return("https://cdn.example.com/lookbook/fade.jpg", nil)
			},
		},
		{
			name: "upload error",
			setupMock: func() {
				f.s3.EXPECT().
					UploadFile(gomock.Any(), "stylebook-media", model.EntityName, gomock.Any(), fileHeader, "fade.jpg").
					Return("", errors.New("s3 error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := f.svc.UploadImage(context.Background(), dto.UploadImageRequest{Image: fileHeader})

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "https://cdn.example.com/lookbook/fade.jpg", res.URL)
			assert.Equal(t, "fade.jpg", res.FileName)
		})
	}
}

func TestLookbookService_DeleteImagesFromS3(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newLookbookFixture(ctrl)

	f.s3.EXPECT().
		GetObjectNameFromURL("stylebook-media", "https://cdn.example.com/lookbook/fade.jpg").
		Return("fade.jpg")

	f.s3.EXPECT().
		DeleteFile(gomock.Any(), "stylebook-media", model.EntityName, "fade.jpg").
		Return(errors.New("s3 error"))

	err := f.svc.DeleteImagesFromS3(context.Background(), dto.DeleteImagesRequest{
		ImageURLs: []string{"https://cdn.example.com/lookbook/fade.jpg"},
	})

	assert.ErrorIs(t, err, service.ErrDeleteImagesFromS3)
}
