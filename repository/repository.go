// Package repository holds the transactional read and conditional-write
// primitives the lifecycle engine and report pipeline are built on.
package repository

import (
	"context"

	"gorm.io/gorm"
)

// Guard is an extra WHERE predicate combined with the row id in a
// conditional update.
type Guard struct {
	Clause string
	Args   []any
}

// Where builds a Guard.
func Where(clause string, args ...any) Guard {
	return Guard{Clause: clause, Args: args}
}

func (g Guard) apply(q *gorm.DB) *gorm.DB {
	if g.Clause == "" {
		return q
	}
	return q.Where("("+g.Clause+")", g.Args...)
}

type base struct {
	db *gorm.DB
}

// conn picks the caller's transaction when there is one.
func (b base) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx == nil {
		tx = b.db
	}
	return tx.WithContext(ctx)
}

// inTx runs fn inside tx when given, or inside a new transaction.
func (b base) inTx(ctx context.Context, tx *gorm.DB, fn func(tx *gorm.DB) error) error {
	if tx != nil {
		return fn(tx.WithContext(ctx))
	}
	return b.db.WithContext(ctx).Transaction(fn)
}
