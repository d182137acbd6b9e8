package counting

import (
	"context"
	"testing"

	"stocktake/core/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestComputeVariance_WorkedExample(t *testing.T) {
	// Catalog {A100: system=10, B200: system=5}; A100 scanned three times,
	// B200 never.
	svc := setupService(t, incrementConfig())
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "dock")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := svc.IngestScan(ctx, session.ID, "7890001")
		require.NoError(t, err)
	}

	report, err := svc.ComputeVariance(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)

	a := report.Rows[0]
	assert.Equal(t, "A100", a.ItemCode)
	assert.Equal(t, 10, a.SystemQuantity)
	assert.Equal(t, 3, a.CountedQuantity)
	assert.Equal(t, -7, a.Difference)

	b := report.Rows[1]
	assert.Equal(t, "B200", b.ItemCode)
	assert.Equal(t, 5, b.SystemQuantity)
	assert.Equal(t, 0, b.CountedQuantity)
	assert.Equal(t, -5, b.Difference)

	assert.Equal(t, 2, report.Summary.TotalItems)
	assert.Equal(t, 2, report.Summary.DivergentCount)
	assert.Equal(t, 0, report.Summary.CorrectCount)
}

func TestComputeVariance_Deterministic(t *testing.T) {
	svc := setupService(t, incrementConfig())
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "dock")
	require.NoError(t, err)
	_, err = svc.IngestScan(ctx, session.ID, "7890002")
	require.NoError(t, err)

	first, err := svc.ComputeVariance(ctx, session.ID)
	require.NoError(t, err)
	second, err := svc.ComputeVariance(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputeVariance_ReconciledRow(t *testing.T) {
	svc := setupService(t, incrementConfig())
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "dock")
	require.NoError(t, err)
	// B200's pack label counts 4 per scan; after one scan counted=4 and the
	// summary splits 4 vs 5 as divergent, 10 vs 10 as correct.
	_, err = svc.IngestScan(ctx, session.ID, "7890002")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		_, err = svc.IngestScan(ctx, session.ID, "7890001")
		require.NoError(t, err)
	}

	report, err := svc.ComputeVariance(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, 0, report.Rows[0].Difference)
	assert.Equal(t, -1, report.Rows[1].Difference)
	assert.Equal(t, 1, report.Summary.CorrectCount)
	assert.Equal(t, 1, report.Summary.DivergentCount)
	assert.Equal(t, report.Summary.TotalItems,
		report.Summary.CorrectCount+report.Summary.DivergentCount)
}

func TestComputeVariance_CountedScope(t *testing.T) {
	svc := NewService(setupStore(t), defaultResolver(),
		Config{DuplicatePolicy: PolicyIncrement, VarianceScope: ScopeCounted}, zap.NewNop())
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "dock")
	require.NoError(t, err)
	_, err = svc.IngestScan(ctx, session.ID, "7890001")
	require.NoError(t, err)

	report, err := svc.ComputeVariance(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "A100", report.Rows[0].ItemCode)
	// The catalog still supplies the system quantity under the counted scope
	assert.Equal(t, 10, report.Rows[0].SystemQuantity)
	assert.Equal(t, -9, report.Rows[0].Difference)
}

func TestComputeVariance_OpenSessionPreview(t *testing.T) {
	svc := setupService(t, incrementConfig())
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "dock")
	require.NoError(t, err)

	// No closure required for a variance preview
	report, err := svc.ComputeVariance(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Summary.TotalItems)
	assert.Equal(t, 0, report.Summary.CorrectCount)
}

func TestComputeVariance_UnknownSession(t *testing.T) {
	svc := setupService(t, incrementConfig())

	_, err := svc.ComputeVariance(context.Background(), "missing")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
