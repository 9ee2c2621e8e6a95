package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/suasdigital/caseflow/internal/domain/casefile"
	"github.com/suasdigital/caseflow/internal/domain/referral"
	"github.com/suasdigital/caseflow/internal/domain/workflow"
	"github.com/suasdigital/caseflow/internal/repository"
	"github.com/suasdigital/caseflow/internal/sqlite"
	"github.com/suasdigital/caseflow/internal/testutil"
)

func newTestStore(t *testing.T) (*sqlite.Store, *sqlite.DB) {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlite.NewStore(db, testutil.Logger()), db
}

func TestStore_PutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	in := map[string]int{"a": 1, "b": 2}
	require.NoError(t, store.Put(ctx, "creas-norte_paefi", "cases", in))

	var out map[string]int
	require.NoError(t, store.Get(ctx, "creas-norte_paefi", "cases", &out))
	require.Equal(t, in, out)
}

func TestStore_MissingKeyIsNotFound(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	var out []string
	err := store.Get(ctx, "creas-norte_paefi", "cases", &out)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_ScopesAreIsolated(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.Put(ctx, "creas-norte_paefi", "cases", []int{1}))
	require.NoError(t, store.Put(ctx, "creas-sul_paefi", "cases", []int{2}))

	var norte, sul []int
	require.NoError(t, store.Get(ctx, "creas-norte_paefi", "cases", &norte))
	require.NoError(t, store.Get(ctx, "creas-sul_paefi", "cases", &sul))
	require.Equal(t, []int{1}, norte)
	require.Equal(t, []int{2}, sul)
}

func TestStore_CorruptBlobReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	store, db := newTestStore(t)

	_, err := db.Exec(`INSERT INTO scope_blobs (scope, key, value) VALUES (?, ?, ?)`,
		"creas-norte_paefi", "cases", "{not json")
	require.NoError(t, err)

	var out []string
	err = store.Get(ctx, "creas-norte_paefi", "cases", &out)
	require.ErrorIs(t, err, repository.ErrNotFound, "corrupt state must degrade, not fail")
}

func TestStore_LegacyMigration(t *testing.T) {
	ctx := context.Background()
	store, db := newTestStore(t)

	// Data written before storage became scoped lives under an empty scope.
	_, err := db.Exec(`INSERT INTO scope_blobs (scope, key, value) VALUES (?, ?, ?)`,
		sqlite.LegacyScope, "cases", `[7]`)
	require.NoError(t, err)

	var out []int
	require.NoError(t, store.Get(ctx, "creas-norte_paefi", "cases", &out))
	require.Equal(t, []int{7}, out)

	// The legacy row moved; a second scope starts empty.
	var other []int
	err = store.Get(ctx, "creas-sul_paefi", "cases", &other)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCaseRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	repo := sqlite.NewCaseRepository(store)

	cases, err := repo.Load(ctx, "creas-norte_paefi")
	require.NoError(t, err)
	require.Empty(t, cases)

	now := time.Now().UTC().Truncate(time.Second)
	in := []*casefile.Case{{
		ID:             1,
		PersonID:       "fam-1",
		RiskLevel:      casefile.RiskHigh,
		Status:         casefile.StatusActive,
		CurrentStage:   "acolhida",
		CreatedAt:      now,
		UpdatedAt:      now,
		LastActivityAt: now,
		StageHistory: map[string][]casefile.StageTouch{
			"acolhida": {{Timestamp: now, Note: "entrada"}},
		},
	}}
	require.NoError(t, repo.Save(ctx, "creas-norte_paefi", in))

	out, err := repo.Load(ctx, "creas-norte_paefi")
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, in[0].ID, out[0].ID)
	require.Equal(t, in[0].RiskLevel, out[0].RiskLevel)
	anchor, ok := out[0].StageEnteredAt("acolhida")
	require.True(t, ok)
	require.True(t, anchor.Equal(now))
}

func TestCaseRepository_SelectedCaseAndSeedMode(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	repo := sqlite.NewCaseRepository(store)

	_, err := repo.SelectedCase(ctx, "creas-norte_paefi")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.SetSelectedCase(ctx, "creas-norte_paefi", 3))
	id, err := repo.SelectedCase(ctx, "creas-norte_paefi")
	require.NoError(t, err)
	require.EqualValues(t, 3, id)

	seeded, err := repo.SeedMode(ctx, "creas-norte_paefi")
	require.NoError(t, err)
	require.False(t, seeded)

	require.NoError(t, repo.SetSeedMode(ctx, "creas-norte_paefi", true))
	seeded, err = repo.SeedMode(ctx, "creas-norte_paefi")
	require.NoError(t, err)
	require.True(t, seeded)
}

func TestWorkflowRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	repo := sqlite.NewWorkflowRepository(store)

	_, err := repo.Load(ctx, "creas-norte_paefi")
	require.ErrorIs(t, err, repository.ErrNotFound)

	cfg := &workflow.Configuration{Stages: []workflow.Stage{{Code: "triagem", Name: "Triagem", SLADays: 3}}}
	require.NoError(t, repo.Save(ctx, "creas-norte_paefi", cfg))

	got, err := repo.Load(ctx, "creas-norte_paefi")
	require.NoError(t, err)
	require.Equal(t, cfg, got)

	require.NoError(t, repo.Delete(ctx, "creas-norte_paefi"))
	_, err = repo.Load(ctx, "creas-norte_paefi")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestReferralRepository_SharedAcrossScopes(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	repo := sqlite.NewReferralRepository(store)

	refs, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, refs)

	in := []*referral.Referral{{
		ID:              "r1",
		PersonID:        "fam-1",
		OriginUnit:      "creas-norte_paefi",
		DestinationUnit: "creas-sul_paefi",
		Subject:         "Acompanhamento",
		Priority:        referral.PriorityHigh,
		Status:          referral.StatusSent,
	}}
	require.NoError(t, repo.Save(ctx, in))

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, referral.StatusSent, out[0].Status)
}
