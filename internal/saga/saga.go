// Package saga substitutes for the cross-table transaction the record store
// cannot provide: a multi-table write is a sequence of single-table steps,
// each registering the action that undoes it.
package saga

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

type step struct {
	name       string
	compensate func(ctx context.Context) error
}

type Saga struct {
	name   string
	logger *slog.Logger
	steps  []step
}

func New(name string, logger *slog.Logger) *Saga {
	if logger == nil {
		logger = slog.Default()
	}

	return &Saga{name: name, logger: logger}
}

// Ran records a completed step and the action that reverses it.
// Steps with no meaningful inverse pass a nil compensate.
func (s *Saga) Ran(name string, compensate func(ctx context.Context) error) {
	s.steps = append(s.steps, step{name: name, compensate: compensate})
}

// Compensate undoes the completed steps in reverse order. Every compensation
// is attempted even if an earlier one fails; failures are joined and logged.
func (s *Saga) Compensate(ctx context.Context) error {
	var errs error

	for i := len(s.steps) - 1; i >= 0; i-- {
		st := s.steps[i]
		if st.compensate == nil {
			continue
		}

		if err := st.compensate(ctx); err != nil {
			s.logger.Error("saga compensation failed",
				"saga", s.name,
				"step", st.name,
				"error", err)
			errs = errors.Join(errs, fmt.Errorf("compensate %s: %w", st.name, err))
		}
	}

	s.steps = nil

	return errs
}
