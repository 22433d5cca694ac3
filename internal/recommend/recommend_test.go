package recommend

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsen/zotrec/internal/s2"
)

type recordingClient struct {
	sent   [][]string
	limits []int
	papers []s2.Paper
	err    error
}

func (c *recordingClient) Recommend(_ context.Context, ids []string, limit int) ([]s2.Paper, error) {
	c.sent = append(c.sent, append([]string(nil), ids...))
	c.limits = append(c.limits, limit)
	return c.papers, c.err
}

func ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("id%03d", i)
	}
	return out
}

func TestRequest_TruncatesToPrefix(t *testing.T) {
	client := &recordingClient{}
	r := NewRequester(client, zerolog.Nop())

	input := ids(150)
	res := r.Request(context.Background(), input, 10, 100)

	require.Len(t, client.sent, 1)
	assert.Equal(t, input[:100], client.sent[0])
	assert.True(t, res.Truncated)
	assert.Equal(t, 100, res.Sent)
	assert.Len(t, input, 150, "caller's slice must not be modified")
}

func TestRequest_UnderCapSendsAll(t *testing.T) {
	client := &recordingClient{}
	r := NewRequester(client, zerolog.Nop())

	res := r.Request(context.Background(), ids(3), 5, 100)

	assert.Equal(t, ids(3), client.sent[0])
	assert.Equal(t, []int{5}, client.limits)
	assert.False(t, res.Truncated)
}

func TestRequest_KeepsProviderOrder(t *testing.T) {
	client := &recordingClient{papers: []s2.Paper{
		{PaperID: "low", CitationCount: 1},
		{PaperID: "high", CitationCount: 1000},
	}}
	r := NewRequester(client, zerolog.Nop())

	res := r.Request(context.Background(), ids(1), 2, 100)

	require.NoError(t, res.Err)
	require.Len(t, res.Papers, 2)
	assert.Equal(t, "low", res.Papers[0].PaperID)
	assert.Equal(t, "high", res.Papers[1].PaperID)
}

func TestRequest_FailureYieldsEmpty(t *testing.T) {
	client := &recordingClient{err: s2.ErrRateLimited}
	r := NewRequester(client, zerolog.Nop())

	res := r.Request(context.Background(), ids(2), 10, 100)

	assert.Empty(t, res.Papers)
	assert.True(t, errors.Is(res.Err, s2.ErrRateLimited))
}

func TestRequest_Defaults(t *testing.T) {
	client := &recordingClient{}
	r := NewRequester(client, zerolog.Nop())

	res := r.Request(context.Background(), ids(DefaultMaxInput+1), 0, 0)

	assert.Equal(t, []int{DefaultLimit}, client.limits)
	assert.Len(t, client.sent[0], DefaultMaxInput)
	assert.True(t, res.Truncated)
}
