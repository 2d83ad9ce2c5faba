package health

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func fixed(status Status) Check {
	return func(context.Context) ComponentHealth { return ComponentHealth{Status: status} }
}

func TestRunAggregatesWorstStatus(t *testing.T) {
	c := NewChecker()
	c.Register("storage", fixed(StatusUp))
	report := c.Run(context.Background())
	require.Equal(t, StatusUp, report.Status)
	require.NotEmpty(t, report.Components["storage"].Latency)

	c.Register("snapshot", fixed(StatusDegraded))
	require.Equal(t, StatusDegraded, c.Run(context.Background()).Status)

	c.Register("storage", fixed(StatusDown))
	report = c.Run(context.Background())
	require.Equal(t, StatusDown, report.Status)
	require.Equal(t, []string{"snapshot", "storage"}, report.Names())
}

func TestRunWithoutChecks(t *testing.T) {
	report := NewChecker().Run(context.Background())
	require.Equal(t, StatusUp, report.Status)
	require.Empty(t, report.Components)
}
