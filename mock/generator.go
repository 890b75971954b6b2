// Package mock provides test doubles for coverletter interfaces using function fields.
package mock

import (
	"context"

	"github.com/fwojciec/coverletter"
)

// Interface compliance check.
var _ coverletter.Generator = (*Generator)(nil)

// Generator is a test double for coverletter.Generator.
// Set GenerateFn before calling Generate.
type Generator struct {
	GenerateFn func(ctx context.Context, req coverletter.GenerateRequest) (coverletter.Stream, error)
}

// Generate delegates to GenerateFn.
func (g *Generator) Generate(ctx context.Context, req coverletter.GenerateRequest) (coverletter.Stream, error) {
	return g.GenerateFn(ctx, req)
}
