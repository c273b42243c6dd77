package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenlens/claims-cli/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestCreateAndGetRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "台塑 減碳承諾", "台塑")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "台塑 減碳承諾", got.Query)
	assert.Equal(t, "台塑", got.PreferredCompany)
	assert.Nil(t, got.Result)
}

func TestCompleteRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "q", "")
	require.NoError(t, err)

	result := &model.RunResult{
		Extraction: &model.ExtractionResult{
			OK:              true,
			SelectedCompany: "台塑2024",
			Claims:          []model.Claim{{ClaimText: "淨零"}},
		},
		Assessment: "[greenwashing risk: low]",
	}
	require.NoError(t, s.CompleteRun(ctx, run.ID, result))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, "台塑2024", got.Result.Extraction.SelectedCompany)
	assert.Equal(t, "[greenwashing risk: low]", got.Result.Assessment)
}

func TestFailRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "q", "")
	require.NoError(t, err)
	require.NoError(t, s.FailRun(ctx, run.ID, errors.New("model call failed")))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	assert.Equal(t, "model call failed", got.Error)
}

func TestRunNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetRun(ctx, "missing")
	assert.Error(t, err)
	assert.Error(t, s.CompleteRun(ctx, "missing", &model.RunResult{}))
	assert.Error(t, s.FailRun(ctx, "missing", errors.New("x")))
}

func TestListRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.CreateRun(ctx, "台塑 污染", "")
	require.NoError(t, err)
	b, err := s.CreateRun(ctx, "中油 罰款", "")
	require.NoError(t, err)
	require.NoError(t, s.CompleteRun(ctx, b.ID, &model.RunResult{}))

	all, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	complete, err := s.ListRuns(ctx, RunFilter{Status: model.RunStatusComplete})
	require.NoError(t, err)
	require.Len(t, complete, 1)
	assert.Equal(t, b.ID, complete[0].ID)

	byQuery, err := s.ListRuns(ctx, RunFilter{Query: "台塑"})
	require.NoError(t, err)
	require.Len(t, byQuery, 1)
	assert.Equal(t, a.ID, byQuery[0].ID)

	limited, err := s.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
