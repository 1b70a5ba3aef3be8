package limiter

import (
	"context"

	"github.com/adrianliechti/redactor/pkg/layout"

	"golang.org/x/time/rate"
)

type Layout interface {
	Limiter
	layout.Provider
}

type limitedLayout struct {
	limiter  *rate.Limiter
	provider layout.Provider
}

func NewLayout(l *rate.Limiter, p layout.Provider) Layout {
	return &limitedLayout{
		limiter:  l,
		provider: p,
	}
}

func (p *limitedLayout) limiterSetup() {
}

func (p *limitedLayout) Extract(ctx context.Context, file layout.File, options *layout.ExtractOptions) (*layout.Document, error) {
	if err := wait(ctx, p.limiter); err != nil {
		return nil, err
	}

	return p.provider.Extract(ctx, file, options)
}
