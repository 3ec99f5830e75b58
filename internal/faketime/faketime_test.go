package faketime_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hostfs/hostfs/internal/faketime"
)

func TestFrozen(t *testing.T) {
	t0 := time.Date(2021, 1, 2, 3, 4, 5, 6, time.UTC)
	now := faketime.Frozen(t0)

	require.Equal(t, t0, now())
	require.Equal(t, t0, now())
}

func TestAutoAdvance(t *testing.T) {
	t0 := time.Date(2021, 1, 2, 3, 4, 5, 6, time.UTC)
	now := faketime.AutoAdvance(t0, time.Second)

	require.Equal(t, t0, now())
	require.Equal(t, t0.Add(time.Second), now())
	require.Equal(t, t0.Add(2*time.Second), now())
}

func TestTimeAdvance(t *testing.T) {
	t0 := time.Date(2021, 1, 2, 3, 4, 5, 6, time.UTC)
	ta := faketime.NewTimeAdvance(t0)
	now := ta.NowFunc()

	require.Equal(t, t0, now())
	require.Equal(t, t0, now())

	require.Equal(t, t0.Add(time.Minute), ta.Advance(time.Minute))
	require.Equal(t, t0.Add(time.Minute), now())
}
