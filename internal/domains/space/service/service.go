package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"spacebook/config"
	"spacebook/infras/otel"
	"spacebook/internal/domains/availability/engine"
	"spacebook/internal/domains/space/model"
	"spacebook/internal/domains/space/model/dto"
	"spacebook/internal/domains/space/repository"
	"spacebook/shared"
	"spacebook/shared/cache"
	"spacebook/shared/constant"
	gDto "spacebook/shared/dto"
	"spacebook/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetSpace        = "space:get"
	cacheSpaceExceptions = "space:exceptions"
)

type Space interface {
	Get(ctx context.Context, id string) (dto.SpaceResponse, error)
	Exceptions(ctx context.Context, id, date string) ([]engine.Exception, error)
}

type serviceImpl struct {
	repo          repository.Space
	exceptionRepo repository.Exception
	cfg           *config.Config
	cache         cache.RedisCache
	otel          otel.Otel
}

func New(repo repository.Space, exceptionRepo repository.Exception, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Space {
	return &serviceImpl{
		repo:          repo,
		exceptionRepo: exceptionRepo,
		cfg:           cfg,
		cache:         cache,
		otel:          otel,
	}
}

func (s *serviceImpl) ttl() time.Duration {
	return time.Duration(s.cfg.Cache.TTL) * time.Second
}

// Get returns an active space, served from cache when possible.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.SpaceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".space.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetSpace, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for space")

		return res, nil
	}

	space, err := s.repo.Get(ctx, shared.FilterAnd(
		gDto.Filter{Field: model.FieldID, Value: id, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		gDto.Filter{Field: model.FieldActive, Value: true, Operator: gDto.FilterOperatorEq, Table: model.TableName},
	))
	if err != nil {
		log.Error().Err(err).Str("space", id).Msg("failed to get space")

		return res, fmt.Errorf("failed to get space: %w", err)
	}

	if space.ID == constant.Empty {
		return res, failure.NotFound("space not found") // nolint:wrapcheck
	}

	res.FromModel(space)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.ttl()); err != nil {
			log.Error().Err(err).Msg("failed to save space to cache")
		}
	}()

	return res, nil
}

// Exceptions returns the schedule exceptions of a space on date.
func (s *serviceImpl) Exceptions(ctx context.Context, id, date string) (res []engine.Exception, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".space.Exceptions")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheSpaceExceptions, id, date)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	models, err := s.exceptionRepo.GetAll(ctx, gDto.QueryParams{}, shared.FilterAnd(
		gDto.Filter{Field: model.FieldExceptionSpaceID, Value: id, Operator: gDto.FilterOperatorEq, Table: model.ExceptionTableName},
		gDto.Filter{Field: model.FieldExceptionDate, Value: date, Operator: gDto.FilterOperatorEq, Table: model.ExceptionTableName},
	))
	if err != nil {
		log.Error().Err(err).Str("space", id).Str("date", date).Msg("failed to get space exceptions")

		return nil, fmt.Errorf("failed to get space exceptions: %w", err)
	}

	res = dto.ToEngineExceptions(models)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.ttl()); err != nil {
			log.Error().Err(err).Msg("failed to save space exceptions to cache")
		}
	}()

	return res, nil
}
