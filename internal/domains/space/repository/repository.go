package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"spacebook/infras/otel"
	"spacebook/infras/postgres"
	"spacebook/internal/domains/space/model"
	gDto "spacebook/shared/dto"
	gRepo "spacebook/shared/repository"
)

type Space interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Space, error)
}

type Exception interface {
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Exception, error)
}

type spaceRepositoryImpl struct {
	gRepo.Repository[model.Space]
}

func New(db *postgres.Connection, otel otel.Otel) Space {
	return &spaceRepositoryImpl{
		Repository: gRepo.NewRepository[model.Space](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

type exceptionRepositoryImpl struct {
	gRepo.Repository[model.Exception]
}

func NewException(db *postgres.Connection, otel otel.Otel) Exception {
	return &exceptionRepositoryImpl{
		Repository: gRepo.NewRepository[model.Exception](model.ExceptionEntityName, model.ExceptionTableName, model.FieldID, db, otel),
	}
}
