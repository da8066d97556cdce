package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"stylebook/infras/otel"
	"stylebook/infras/postgres"
	"stylebook/internal/domains/gallery/model"
	gDto "stylebook/shared/dto"
	gRepo "stylebook/shared/repository"
)

type Lookbook interface {
	Insert(ctx context.Context, model model.Style) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Style, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Style, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Style]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Lookbook {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Style](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
