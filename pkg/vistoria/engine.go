// Package vistoria is the inspection lifecycle engine. Every transition is a
// single conditional update guarded by id, ownership and current status; a
// guard that matches nothing is reported as utils.ErrNotFound whatever the
// cause.
package vistoria

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"vistoria.app/api/models"
	"vistoria.app/api/pkg/lifecycle"
	"vistoria.app/api/repository"
	"vistoria.app/api/utils"
)

type Engine struct {
	repo    repository.VistoriaRepo
	imoveis repository.ImovelRepo
	log     *zap.Logger
	now     func() time.Time
}

type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(repo repository.VistoriaRepo, imoveis repository.ImovelRepo, log *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		repo:    repo,
		imoveis: imoveis,
		log:     log.Named("vistoria"),
		now:     time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Schedule sets the first visit date of an inspection the client owns.
func (e *Engine) Schedule(ctx context.Context, actor lifecycle.Actor, id int64, date, tod string) (*models.Vistoria, error) {
	return e.schedule(ctx, actor, lifecycle.ActionSchedule, id, date, tod)
}

// Reschedule sets a new visit date after a report was delivered or rejected.
func (e *Engine) Reschedule(ctx context.Context, actor lifecycle.Actor, id int64, date, tod string) (*models.Vistoria, error) {
	return e.schedule(ctx, actor, lifecycle.ActionReschedule, id, date, tod)
}

func (e *Engine) schedule(ctx context.Context, actor lifecycle.Actor, action lifecycle.Action, id int64, date, tod string) (*models.Vistoria, error) {
	at, err := ComposeScheduledAt(date, tod, e.now())
	if err != nil {
		return nil, err
	}
	t := lifecycle.MustLookup(action)
	return e.transition(ctx, nil, actor, t,
		id, repository.Where("status IN ? AND idcliente = ?", lifecycle.Strings(t.From), actor.ID),
		map[string]any{"dataagendada": at})
}

func (e *Engine) Reject(ctx context.Context, actor lifecycle.Actor, id int64) (*models.Vistoria, error) {
	t := lifecycle.MustLookup(lifecycle.ActionReject)
	return e.transition(ctx, nil, actor, t,
		id, repository.Where("status IN ? AND idcliente = ?", lifecycle.Strings(t.From), actor.ID),
		map[string]any{"datahorafim": e.now()})
}

func (e *Engine) Validate(ctx context.Context, actor lifecycle.Actor, id int64) (*models.Vistoria, error) {
	t := lifecycle.MustLookup(lifecycle.ActionValidate)
	return e.transition(ctx, nil, actor, t,
		id, repository.Where("status IN ? AND idcliente = ?", lifecycle.Strings(t.From), actor.ID),
		map[string]any{})
}

// Start claims an open inspection for the calling inspector, or re-enters one
// it already holds. Inspector and start time are only written when unset.
func (e *Engine) Start(ctx context.Context, actor lifecycle.Actor, id int64) (*models.Vistoria, error) {
	t := lifecycle.MustLookup(lifecycle.ActionStart)
	guard := repository.Where(
		"(status IN ? AND (idvistoriador IS NULL OR idvistoriador = ?)) OR (status = ? AND idvistoriador = ?)",
		lifecycle.Strings(t.From), actor.ID, t.To, actor.ID,
	)
	return e.transition(ctx, nil, actor, t, id, guard, map[string]any{
		"idvistoriador":  gorm.Expr("COALESCE(idvistoriador, ?)", actor.ID),
		"datahorainicio": gorm.Expr("COALESCE(datahorainicio, ?)", e.now()),
	})
}

// Finalize closes a validated inspection and bumps the property's completed
// counter in the same transaction.
func (e *Engine) Finalize(ctx context.Context, actor lifecycle.Actor, id int64) (*models.Vistoria, error) {
	t := lifecycle.MustLookup(lifecycle.ActionFinalize)
	var out *models.Vistoria
	err := e.repo.Transaction(ctx, func(tx *gorm.DB) error {
		v, err := e.transition(ctx, tx, actor, t,
			id, repository.Where("status IN ? AND idvistoriador = ?", lifecycle.Strings(t.From), actor.ID),
			map[string]any{"datahorafim": gorm.Expr("COALESCE(datahorafim, ?)", e.now())})
		if err != nil {
			return err
		}
		if err := e.imoveis.IncrementRealizadas(ctx, tx, v.IDImovel); err != nil {
			return fmt.Errorf("increment vistoriasrealizadas: %w", err)
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Engine) transition(ctx context.Context, tx *gorm.DB, actor lifecycle.Actor, t lifecycle.Transition, id int64, guard repository.Guard, updates map[string]any) (*models.Vistoria, error) {
	log := e.log.With(zap.Int64("vistoria_id", id), zap.String("action", string(t.Action)), zap.Int64("actor_id", actor.ID))
	if actor.Party() != t.Party {
		log.Debug("action not available to caller")
		return nil, utils.ErrNotFound
	}

	updates["status"] = t.To
	rows, err := e.repo.ConditionalUpdate(ctx, tx, id, guard, updates)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.Action, err)
	}
	if len(rows) == 0 {
		log.Debug("transition guard matched no rows")
		return nil, utils.ErrNotFound
	}
	log.Info("vistoria transitioned", zap.String("status", string(t.To)))
	return &rows[0], nil
}
