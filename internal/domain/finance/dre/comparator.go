package dre

import (
	"context"
	"time"

	"confina/internal/core/apperror"
	"confina/internal/core/id"
	"confina/internal/core/types"
)

// Comparator builds one statement per entity over a shared period and ranks
// the results.
type Comparator struct {
	builder *Builder
}

// NewComparator creates a comparator over the given builder.
func NewComparator(builder *Builder) *Comparator {
	return &Comparator{builder: builder}
}

// Compare requires at least two entities. Entities are ranked by net income;
// averages are arithmetic means across all compared statements.
func (c *Comparator) Compare(ctx context.Context, entityType EntityType, entityIDs []id.ID, periodStart, periodEnd time.Time) (*Comparison, error) {
	if len(entityIDs) < 2 {
		return nil, apperror.NewInsufficientEntities(len(entityIDs))
	}

	statements := make([]Statement, 0, len(entityIDs))
	for i := range entityIDs {
		eid := entityIDs[i]
		st, err := c.builder.Build(ctx, Params{
			EntityType:  entityType,
			EntityID:    &eid,
			PeriodStart: periodStart,
			PeriodEnd:   periodEnd,
		})
		if err != nil {
			return nil, err
		}
		statements = append(statements, *st)
	}

	best, worst := 0, 0
	marginSum := types.Zero()
	roiSum := types.Zero()
	total := types.Zero()
	for i := range statements {
		st := &statements[i]
		if st.NetIncome.GreaterThan(statements[best].NetIncome) {
			best = i
		}
		if st.NetIncome.LessThan(statements[worst].NetIncome) {
			worst = i
		}
		marginSum = marginSum.Add(st.NetMargin)
		roiSum = roiSum.Add(st.Metrics.ROI)
		total = total.Add(st.NetIncome)
	}

	n := int64(len(statements))
	cmp := &Comparison{
		Statements:       statements,
		BestPerformer:    statements[best].EntityLabel,
		WorstPerformer:   statements[worst].EntityLabel,
		AverageNetMargin: types.Ratio(marginSum, n),
		AverageROI:       types.Ratio(roiSum, n),
		TotalNetIncome:   total,
	}
	cmp.Insights = generateInsights(statements)
	return cmp, nil
}
