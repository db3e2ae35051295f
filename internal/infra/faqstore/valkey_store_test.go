package faqstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go/mock"
	"go.uber.org/mock/gomock"

	"github.com/yanqian/faq-matcher/internal/domain/faq"
)

func TestValkeyStoreIncrementQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)
	ctx := context.Background()

	gomock.InOrder(
		client.EXPECT().
			Do(gomock.Any(), mock.Match("ZINCRBY", "faq:trending", "1", "what is the fee?")).
			Return(mock.Result(mock.ValkeyString("1"))),
		client.EXPECT().
			Do(gomock.Any(), mock.Match("SET", "faq:display:what is the fee?", "What is the fee?", "NX")).
			Return(mock.Result(mock.ValkeyString("OK"))),
	)

	store := NewValkeyStore(client, "")
	require.NoError(t, store.IncrementQuery(ctx, "what is the fee?", "What is the fee?"))
	require.NoError(t, store.IncrementQuery(ctx, "", "ignored"))
}

func TestValkeyStoreIncrementQueryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)

	client.EXPECT().
		Do(gomock.Any(), mock.Match("ZINCRBY", "campus:trending", "1", "fee")).
		Return(mock.ErrorResult(errors.New("connection refused")))

	err := NewValkeyStore(client, "campus").IncrementQuery(context.Background(), "fee", "Fee?")
	require.Error(t, err)
}

func TestValkeyStoreTopQueriesNestedReply(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)

	client.EXPECT().
		Do(gomock.Any(), mock.Match("ZREVRANGE", "faq:trending", "0", "1", "WITHSCORES")).
		Return(mock.Result(mock.ValkeyArray(
			mock.ValkeyArray(mock.ValkeyBlobString("what is the fee?"), mock.ValkeyFloat64(3)),
			mock.ValkeyArray(mock.ValkeyBlobString("where is the campus?"), mock.ValkeyFloat64(1)),
		)))
	client.EXPECT().
		Do(gomock.Any(), mock.Match("MGET", "faq:display:what is the fee?", "faq:display:where is the campus?")).
		Return(mock.Result(mock.ValkeyArray(
			mock.ValkeyBlobString("What is the fee?"),
			mock.ValkeyNil(),
		)))

	top, err := NewValkeyStore(client, "faq").TopQueries(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, []faq.TrendingQuery{
		{Query: "What is the fee?", Count: 3},
		{Query: "where is the campus?", Count: 1},
	}, top)
}

func TestValkeyStoreTopQueriesFlatReply(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)

	client.EXPECT().
		Do(gomock.Any(), mock.Match("ZREVRANGE", "faq:trending", "0", "-1", "WITHSCORES")).
		Return(mock.Result(mock.ValkeyArray(
			mock.ValkeyBlobString("what is the fee?"), mock.ValkeyBlobString("5"),
			mock.ValkeyBlobString("is there a hostel?"), mock.ValkeyBlobString("2"),
		)))
	client.EXPECT().
		Do(gomock.Any(), mock.Match("MGET", "faq:display:what is the fee?", "faq:display:is there a hostel?")).
		Return(mock.ErrorResult(errors.New("timeout")))

	top, err := NewValkeyStore(client, "faq").TopQueries(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, []faq.TrendingQuery{
		{Query: "what is the fee?", Count: 5},
		{Query: "is there a hostel?", Count: 2},
	}, top)
}

func TestValkeyStoreTopQueriesEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)

	client.EXPECT().
		Do(gomock.Any(), mock.Match("ZREVRANGE", "faq:trending", "0", "4", "WITHSCORES")).
		Return(mock.Result(mock.ValkeyArray()))

	top, err := NewValkeyStore(client, "faq").TopQueries(context.Background(), 5)
	require.NoError(t, err)
	require.Empty(t, top)
}

func TestValkeyStoreTopQueriesError(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)

	client.EXPECT().
		Do(gomock.Any(), mock.Match("ZREVRANGE", "faq:trending", "0", "4", "WITHSCORES")).
		Return(mock.ErrorResult(errors.New("connection reset")))

	_, err := NewValkeyStore(client, "faq").TopQueries(context.Background(), 5)
	require.Error(t, err)
}
