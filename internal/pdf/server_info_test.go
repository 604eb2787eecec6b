package pdf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/fieldforms/internal/descriptions"
	"github.com/a3tai/fieldforms/internal/forms"
)

func TestInfo(t *testing.T) {
	s := newTestService(t, func(o *Options) { o.Draft = true })
	_, err := s.Export(context.Background(), ExportRequest{Form: workOrder(t, "WO-60", true)})
	require.NoError(t, err)

	info, err := s.Info(context.Background(), "fieldforms", "1.2.3")
	require.NoError(t, err)

	assert.Equal(t, "fieldforms", info.ServerName)
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, s.OutputDirectory(), info.OutputDirectory)
	assert.Equal(t, "A4", info.PageSize)
	assert.Equal(t, 2, info.Workers)
	assert.True(t, info.Draft)
	assert.Len(t, info.RecentDocuments, 1)
	assert.Contains(t, info.UsageGuidance, s.OutputDirectory())

	require.Len(t, info.Kinds, 3)
	assert.Equal(t, forms.KindWorkOrder, info.Kinds[0].Kind)
	assert.Equal(t, "Work Order", info.Kinds[0].Title)
}

func TestAvailableTools_MatchDescriptions(t *testing.T) {
	tools := availableTools()
	names := make([]string, len(tools))
	for i, tool := range tools {
		names[i] = tool.Name
		assert.NotEmpty(t, tool.Description, tool.Name)
		assert.NotEmpty(t, tool.Parameters, tool.Name)
	}
	assert.ElementsMatch(t, descriptions.GetAllToolNames(), names)
}

func TestInfo_CancelledScan(t *testing.T) {
	s := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	info, err := s.Info(ctx, "fieldforms", "dev")
	require.NoError(t, err)
	assert.Empty(t, info.RecentDocuments)
}
