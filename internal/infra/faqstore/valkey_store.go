package faqstore

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/faq-matcher/internal/domain/faq"
)

// ValkeyStore keeps trending counters in a sorted set of a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "faq"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// IncrementQuery implements faq.Store.
func (s *ValkeyStore) IncrementQuery(ctx context.Context, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	if err := s.client.Do(ctx, s.client.B().Zincrby().Key(s.trendingKey()).Increment(1).Member(canonical).Build()).Error(); err != nil {
		return err
	}
	if display != "" {
		_ = s.client.Do(ctx, s.client.B().Set().Key(s.displayKey(canonical)).Value(display).Nx().Build()).Error()
	}
	return nil
}

// TopQueries implements faq.Store.
func (s *ValkeyStore) TopQueries(ctx context.Context, limit int) ([]faq.TrendingQuery, error) {
	// limit <= 0 returns every counted question, matching MemoryStore.
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	arr, err := s.client.Do(ctx, s.client.B().Zrevrange().Key(s.trendingKey()).Start(0).Stop(stop).Withscores().Build()).ToArray()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}
	members, scores, err := decodeScored(arr)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}

	displays := s.fetchDisplays(ctx, members)
	out := make([]faq.TrendingQuery, len(members))
	for i := range members {
		out[i] = faq.TrendingQuery{Query: displays[i], Count: int64(scores[i])}
	}
	return out, nil
}

// decodeScored accepts both reply shapes of ZREVRANGE WITHSCORES: RESP3 nests
// [member, score] pairs while RESP2 returns a flat alternating array.
func decodeScored(arr []valkey.ValkeyMessage) ([]string, []float64, error) {
	var (
		members []string
		scores  []float64
	)
	for i := 0; i < len(arr); {
		if tuple, err := arr[i].ToArray(); err == nil && len(tuple) == 2 {
			member, err := tuple[0].ToString()
			if err != nil {
				return nil, nil, err
			}
			score, err := tuple[1].AsFloat64()
			if err != nil {
				return nil, nil, err
			}
			members = append(members, member)
			scores = append(scores, score)
			i++
			continue
		}
		if i+1 >= len(arr) {
			break
		}
		member, err := arr[i].ToString()
		if err != nil {
			return nil, nil, err
		}
		score, err := arr[i+1].AsFloat64()
		if err != nil {
			return nil, nil, err
		}
		members = append(members, member)
		scores = append(scores, score)
		i += 2
	}
	return members, scores, nil
}

// fetchDisplays resolves display strings with a single MGET, falling back to the canonical form.
func (s *ValkeyStore) fetchDisplays(ctx context.Context, canonical []string) []string {
	out := append([]string(nil), canonical...)
	keys := make([]string, len(canonical))
	for i, c := range canonical {
		keys[i] = s.displayKey(c)
	}
	values, err := s.client.Do(ctx, s.client.B().Mget().Key(keys...).Build()).ToArray()
	if err != nil {
		return out
	}
	for i, v := range values {
		if i >= len(out) {
			break
		}
		if display, err := v.ToString(); err == nil && display != "" {
			out[i] = display
		}
	}
	return out
}

func (s *ValkeyStore) trendingKey() string {
	return fmt.Sprintf("%s:trending", s.prefix)
}

func (s *ValkeyStore) displayKey(canonical string) string {
	return fmt.Sprintf("%s:display:%s", s.prefix, canonical)
}

var _ faq.Store = (*ValkeyStore)(nil)
