// Package dashboard computes the per-resource totals shown on the admin home screen.
package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/query"
)

// Counter counts the records of one resource.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

type CounterFunc func(ctx context.Context) (int, error)

func (f CounterFunc) Count(ctx context.Context) (int, error) { return f(ctx) }

// CountOf counts through a one-row page of data; only ResultPage.Total is used.
func CountOf[R any](data query.DataAccess[R], resource string, filters ...query.FilterInput) Counter {
	return CounterFunc(func(ctx context.Context) (int, error) {
		page, err := data.Execute(ctx, resource, query.CanonicalQuery{
			Filters:    append([]query.FilterInput{}, filters...),
			Pagination: query.Pagination{PageSize: 1},
		})
		if err != nil {
			return 0, core.NewFetchFailure(resource, err)
		}
		return page.Total, nil
	})
}

type Total struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Total int    `json:"total"`
	Error string `json:"error,omitempty"`
}

type Card struct {
	Name    string
	Label   string
	Counter Counter
}

type Service struct {
	cards  []Card
	logger core.Logger
}

func NewService(logger core.Logger, cards ...Card) *Service {
	return &Service{cards: cards, logger: logger}
}

// Totals counts every card concurrently. A failing card reports its error instead of a total.
func (svc *Service) Totals(ctx context.Context) []Total {
	totals := make([]Total, len(svc.cards))

	// a failing card never cancels the others
	var g errgroup.Group
	for i, card := range svc.cards {
		i, card := i, card
		g.Go(func() error {
			totals[i] = Total{Name: card.Name, Label: card.Label}
			n, err := card.Counter.Count(ctx)
			if err != nil {
				totals[i].Error = fmt.Sprintf("Failed to load %s", card.Name)
				svc.logger.Warn(totals[i].Error, err)
				return nil
			}
			totals[i].Total = n
			return nil
		})
	}
	_ = g.Wait()

	return totals
}
