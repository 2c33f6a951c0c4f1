package parallel

import (
	"context"
	"sync"
)

// Pool runs tasks concurrently, at most workers at a time. All tasks added
// to one Pool run to completion; a task error is recorded but never cancels
// siblings unless Stop is called.
type Pool interface {
	Add(f func(ctx context.Context) error)
	Stop()
	Wait() error
}

type pool struct {
	ctx       context.Context
	ctxCancel func()

	wg  sync.WaitGroup
	sem chan struct{}

	errOnce sync.Once
	err     error
}

func New(ctx context.Context, workers int) Pool {
	p := &pool{
		sem: make(chan struct{}, workers),
	}
	p.ctx, p.ctxCancel = context.WithCancel(ctx)

	return p
}

func (p *pool) Add(f func(ctx context.Context) error) {
	p.wg.Add(1)

	go func() {
		defer p.wg.Done()

		p.sem <- struct{}{}
		defer func() { <-p.sem }()

		if p.ctx.Err() != nil {
			return
		}

		if err := f(p.ctx); err != nil {
			p.errOnce.Do(func() { p.err = err })
		}
	}()
}

func (p *pool) Stop() {
	p.ctxCancel()
}

func (p *pool) Wait() error {
	p.wg.Wait()
	p.ctxCancel()

	return p.err
}
