// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"context"
	"errors"
)

var (
	_ Subscription[struct{}] = (*SubscriptionFunc[struct{}])(nil)
	_ Subscription[struct{}] = (*mapped[struct{}, struct{}])(nil)
)

// Subscription defines how to consume events
type Subscription[T any] interface {
	// Accept returns fatal errors
	Accept(ctx context.Context, t T) error
	// Close returns fatal errors
	Close() error
}

type SubscriptionFunc[T any] struct {
	AcceptF func(ctx context.Context, t T) error
}

func (s SubscriptionFunc[T]) Accept(ctx context.Context, t T) error {
	return s.AcceptF(ctx, t)
}

func (SubscriptionFunc[_]) Close() error {
	return nil
}

type mapped[T any, U any] struct {
	f   func(T) U
	sub Subscription[U]
}

// Map returns a Subscription that converts every event with [f] before
// passing it to [sub].
func Map[T any, U any](f func(T) U, sub Subscription[U]) Subscription[T] {
	return &mapped[T, U]{f: f, sub: sub}
}

func (m *mapped[T, _]) Accept(ctx context.Context, t T) error {
	return m.sub.Accept(ctx, m.f(t))
}

func (m *mapped[_, _]) Close() error {
	return m.sub.Close()
}

// NotifyAll delivers [e] to every subscription, even if some fail.
func NotifyAll[T any](ctx context.Context, e T, subs ...Subscription[T]) error {
	var errs []error
	for _, sub := range subs {
		if err := sub.Accept(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CloseAll closes every subscription and joins their errors.
func CloseAll[T any](subs ...Subscription[T]) error {
	var errs []error
	for _, sub := range subs {
		if err := sub.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
