package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func version(n int, total float64, changeOrder bool, status string) EstimateVersion {
	return EstimateVersion{
		ID:            "v" + string(rune('0'+n)),
		ProposalNo:    "P-100",
		VersionNumber: n,
		Date:          time.Date(2026, 1, n, 0, 0, 0, 0, time.UTC),
		TotalAmount:   total,
		IsChangeOrder: changeOrder,
		Status:        status,
	}
}

func TestNew_SortsByVersionNumber(t *testing.T) {
	l, err := New("P-100",
		version(3, 300, false, ""),
		version(1, 100, false, ""),
		version(2, 200, false, ""),
	)
	require.NoError(t, err)

	got := l.Versions()
	require.Len(t, got, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{got[0].VersionNumber, got[1].VersionNumber, got[2].VersionNumber})

	latest, ok := l.Latest()
	require.True(t, ok)
	assert.Equal(t, 3, latest.VersionNumber)
	assert.Equal(t, 4, l.NextVersionNumber())
}

func TestLedger_ContractAmounts(t *testing.T) {
	l, err := New("P-100",
		version(1, 10000, false, "won"),
		version(2, 12000, false, "won"),
		version(3, 1500, true, "Completed"),
		version(4, 800, true, "won"),
		version(5, 5000, true, "pending"),
		version(6, 9000, true, "lost"),
		version(7, 700, true, ""),
	)
	require.NoError(t, err)

	latest, ok := l.Latest()
	require.True(t, ok)
	assert.Equal(t, 7, latest.VersionNumber)

	original, ok := l.LatestOriginal()
	require.True(t, ok)
	assert.Equal(t, 2, original.VersionNumber)

	assert.InDelta(t, 12000, l.OriginalContract(), 1e-9)
	assert.InDelta(t, 2300, l.ChangeOrdersTotal(), 1e-9)

	rec := l.Reconciliation()
	assert.Equal(t, "P-100", rec.ProposalNo)
	assert.InDelta(t, 14300, rec.ContractTotal, 1e-9)
}

func TestLedger_Empty(t *testing.T) {
	l, err := New("P-1")
	require.NoError(t, err)

	_, ok := l.Latest()
	assert.False(t, ok)
	assert.Equal(t, 0.0, l.OriginalContract())
	assert.Equal(t, 0.0, l.ChangeOrdersTotal())
	assert.Equal(t, 1, l.NextVersionNumber())
}

func TestLedger_OnlyChangeOrders(t *testing.T) {
	l, err := New("P-100", version(2, 500, true, "won"))
	require.NoError(t, err)

	_, ok := l.LatestOriginal()
	assert.False(t, ok)
	assert.Equal(t, 0.0, l.OriginalContract())
	assert.InDelta(t, 500, l.ChangeOrdersTotal(), 1e-9)
}

func TestLedger_AddRejects(t *testing.T) {
	l, err := New("P-100", version(1, 100, false, ""))
	require.NoError(t, err)

	other := version(2, 100, false, "")
	other.ProposalNo = "P-200"
	require.ErrorIs(t, l.Add(other), ErrProposalMismatch)

	require.ErrorIs(t, l.Add(version(1, 999, false, "")), ErrDuplicateVersion)
	assert.Equal(t, 1, l.Len())
}

func TestLedger_VersionsIsACopy(t *testing.T) {
	l, err := New("P-100", version(1, 100, false, ""))
	require.NoError(t, err)

	vs := l.Versions()
	vs[0].TotalAmount = 1

	assert.InDelta(t, 100, l.OriginalContract(), 1e-9)
}
