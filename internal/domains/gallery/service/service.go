package service

import (
	"context"
	"errors"
	"fmt"
	"stylebook/config"
	"stylebook/infras/otel"
	"stylebook/infras/s3"
	"stylebook/internal/domains/gallery/model"
	"stylebook/internal/domains/gallery/model/dto"
	"stylebook/internal/domains/gallery/repository"
	"stylebook/shared"
	"stylebook/shared/cache"
	"stylebook/shared/constant"
	gDto "stylebook/shared/dto"
	"stylebook/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetStyle     = "lookbook:get"
	cacheGetAllStyles = "lookbook:gets"
	cacheCountStyles  = "lookbook:count"
	cachePublicStyles = "lookbook:public"
)

var (
	ErrDeleteImagesFromS3 = errors.New("failed to delete images from S3")
)

type Lookbook interface {
	ListPublic(ctx context.Context) ([]dto.PublicStyleResponse, error)
	Create(ctx context.Context, req dto.CreateStyleRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetStylesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.StyleResponse, error)
	Update(ctx context.Context, req dto.UpdateStyleRequest, id string) error
	Delete(ctx context.Context, id string) error
	UploadImage(ctx context.Context, req dto.UploadImageRequest) (dto.UploadImageResponse, error)
	DeleteImagesFromS3(ctx context.Context, req dto.DeleteImagesRequest) error
}

type serviceImpl struct {
	repo  repository.Lookbook
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	s3    s3.S3
}

func New(repo repository.Lookbook, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Lookbook {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		s3:    s3,
	}
}

// ListPublic returns the lookbook as the shop site shows it, featured styles
// first. Cached; admin writes invalidate it.
func (s *serviceImpl) ListPublic(ctx context.Context) (res []dto.PublicStyleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListPublic")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = s.cache.Get(ctx, cachePublicStyles, &res)
	if err == nil {
		log.Info().Str("cacheKey", cachePublicStyles).Msg("cache hit for public lookbook")

		return res, nil
	}

	params := gDto.QueryParams{SortBy: model.FieldFeatured, SortDir: gDto.SortDirDesc}

	models, err := s.repo.GetAll(ctx, params, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get public lookbook")

		return res, fmt.Errorf("failed to get public lookbook: %w", err)
	}

	res = make([]dto.PublicStyleResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cachePublicStyles, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save public lookbook to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateStyleRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.repo.Insert(ctx, req.ToModel(user)); err != nil {
		log.Error().Err(err).Msg("failed to create lookbook style")

		return fmt.Errorf("failed to create lookbook style: %w", err)
	}

	s.invalidateListCaches(ctx)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetStylesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllStyles, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for lookbook styles")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count lookbook styles")

		return res, fmt.Errorf("failed to count lookbook styles: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get lookbook styles")

		return res, fmt.Errorf("failed to get lookbook styles: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save lookbook styles to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountStyles, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count lookbook styles")

		return res, fmt.Errorf("failed to count lookbook styles: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save lookbook count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.StyleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetStyle, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	style, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get lookbook style")

		return res, fmt.Errorf("failed to get lookbook style: %w", err)
	}

	if style.ID == constant.Empty {
		return res, failure.NotFound("lookbook style not found") // nolint:wrapcheck
	}

	res.FromModel(style)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save lookbook style to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateStyleRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check lookbook style existence")

		return fmt.Errorf("failed to check lookbook style existence: %w", err)
	}

	if !exist {
		return failure.NotFound("lookbook style not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update lookbook style")

		return fmt.Errorf("failed to update lookbook style: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetStyle, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete lookbook style cache")
		}
	}()
	s.invalidateListCaches(ctx)

	return nil
}

// Delete removes a style and, in the background, the S3 objects its images
// point at.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	style, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get lookbook style for deletion")

		return fmt.Errorf("failed to get lookbook style: %w", err)
	}

	if style.ID == constant.Empty {
		return failure.NotFound("lookbook style not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete lookbook style")

		return fmt.Errorf("failed to delete lookbook style: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetStyle, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete lookbook style cache")
		}

		if len(style.Images) > 0 {
			deleteReq := dto.DeleteImagesRequest{ImageURLs: style.Images}
			if err := s.DeleteImagesFromS3(c, deleteReq); err != nil {
				log.Error().Err(err).Msg("failed to delete images from S3")
			}
		}
	}()
	s.invalidateListCaches(ctx)

	return nil
}

func (s *serviceImpl) UploadImage(ctx context.Context, req dto.UploadImageRequest) (res dto.UploadImageResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadImage")
	defer scope.End()
	defer scope.TraceIfError(err)

	bucketName := s.cfg.External.S3.BucketName

	url, err := s.s3.UploadFile(ctx, bucketName, model.EntityName, req.ImageFile, req.Image, req.Image.Filename)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload file to S3")

		return res, fmt.Errorf("failed to upload file to S3: %w", err)
	}

	res.FromModel(url, req.Image.Filename)

	return res, nil
}

func (s *serviceImpl) DeleteImagesFromS3(ctx context.Context, req dto.DeleteImagesRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteImagesFromS3")
	defer scope.End()
	defer scope.TraceIfError(err)

	bucketName := s.cfg.External.S3.BucketName

	var deleteErrors []error

	for _, imageURL := range req.ImageURLs {
		objectName := s.s3.GetObjectNameFromURL(bucketName, imageURL)
		if objectName == constant.Empty {
			log.Warn().Str("url", imageURL).Msg("failed to extract object name from URL")

			continue
		}

		if err := s.s3.DeleteFile(ctx, bucketName, model.EntityName, objectName); err != nil {
			log.Error().Err(err).Str("objectName", objectName).Msg("failed to delete file from S3")
			deleteErrors = append(deleteErrors, err)
		}
	}

	if len(deleteErrors) > 0 {
		return fmt.Errorf("%w: %d images", ErrDeleteImagesFromS3, len(deleteErrors))
	}

	return nil
}

func (s *serviceImpl) invalidateListCaches(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllStyles)
		shared.InvalidateCaches(c, s.cache, cacheCountStyles)

		if err := s.cache.Delete(c, cachePublicStyles); err != nil {
			log.Error().Err(err).Msg("failed to delete public lookbook cache")
		}
	}()
}
