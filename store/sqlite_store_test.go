package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Aashish23092/auction-analyzer/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "analyses.db"))
	require.NoError(t, err)
	require.NoError(t, s.EnsureSchema())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func result(id string, created time.Time, caseNo string, minBid *int64) *dto.AnalysisResult {
	return &dto.AnalysisResult{
		ID:        id,
		CreatedAt: created,
		Listing:   dto.ExtractedListing{CaseNo: &caseNo, MinimumBid: minBid},
		Verdict:   dto.Verdict{Decision: dto.DecisionHold, Reasons: []string{"최저가 미추출(0원) → 최저가 수동 입력 후 재분석 필요"}},
	}
}

func TestSQLiteStore_SaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	minBid := int64(273_600_000)
	in := result("a1", time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), "2024타경12345", &minBid)
	require.NoError(t, s.SaveAnalysis(ctx, in))

	got, err := s.GetAnalysis(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "a1", got.ID)
	assert.True(t, in.CreatedAt.Equal(got.CreatedAt))
	require.NotNil(t, got.Listing.MinimumBid)
	assert.Equal(t, minBid, *got.Listing.MinimumBid)
	assert.Equal(t, in.Verdict, got.Verdict)
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetAnalysis(context.Background(), "nope")
	assert.ErrorIs(t, err, dto.ErrCaseNotFound)
}

func TestSQLiteStore_ListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	minBid := int64(100_000_000)
	require.NoError(t, s.SaveAnalysis(ctx, result("old", base, "2024타경1", nil)))
	require.NoError(t, s.SaveAnalysis(ctx, result("new", base.Add(time.Hour), "2024타경2", &minBid)))
	require.NoError(t, s.SaveAnalysis(ctx, result("mid", base.Add(time.Minute), "2024타경3", nil)))

	list, err := s.ListAnalyses(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "mid", list[1].ID)
	assert.Equal(t, "2024타경2", list[0].CaseNo)
	require.NotNil(t, list[0].MinimumBid)
	assert.Equal(t, minBid, *list[0].MinimumBid)
	assert.Nil(t, list[1].MinimumBid)
	assert.Equal(t, dto.DecisionHold, list[0].Decision)
}

func TestSQLiteStore_SaveReplaces(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	r := result("a1", time.Now().UTC(), "2024타경1", nil)
	require.NoError(t, s.SaveAnalysis(ctx, r))
	r.Verdict.Decision = dto.DecisionProceedConditional
	require.NoError(t, s.SaveAnalysis(ctx, r))

	list, err := s.ListAnalyses(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, dto.DecisionProceedConditional, list[0].Decision)
}
