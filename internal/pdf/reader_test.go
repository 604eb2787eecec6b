package pdf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectPages(t *testing.T) {
	tests := []struct {
		name   string
		total  int
		ranges []PageRange
		want   []int
	}{
		{name: "no ranges reads everything", total: 3, want: []int{1, 2, 3}},
		{name: "single page", total: 5, ranges: []PageRange{{Start: 2, End: 2}}, want: []int{2}},
		{name: "open end", total: 4, ranges: []PageRange{{Start: 3}}, want: []int{3, 4}},
		{name: "clamped bounds", total: 3, ranges: []PageRange{{Start: -1, End: 10}}, want: []int{1, 2, 3}},
		{name: "overlapping ranges", total: 6, ranges: []PageRange{{Start: 4, End: 5}, {Start: 1, End: 4}}, want: []int{1, 2, 3, 4, 5}},
		{name: "inverted range skipped", total: 3, ranges: []PageRange{{Start: 3, End: 1}}, want: []int{}},
		{name: "past the end", total: 2, ranges: []PageRange{{Start: 5}}, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, selectPages(tt.total, tt.ranges))
		})
	}
}

func TestReadDocument_PageRange(t *testing.T) {
	s := newTestService(t)
	exported, err := s.Export(context.Background(), ExportRequest{Form: workOrder(t, "WO-51", true)})
	require.NoError(t, err)

	doc, err := s.ReadDocument(DocumentRequest{Path: exported.Name, Pages: []PageRange{{Start: 1, End: 1}}})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, doc.PagesRead)
	assert.NotContains(t, doc.Content, pageBreak)

	_, err = s.ReadDocument(DocumentRequest{Path: exported.Name, Pages: []PageRange{{Start: exported.Pages + 1}}})
	assert.Error(t, err)
}
