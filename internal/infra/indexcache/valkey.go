package indexcache

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/faq-matcher/internal/domain/faq"
)

// ValkeyStore persists bundles in a Valkey-compatible database under
// <prefix>:index:<fingerprint>.
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

// Load implements faq.IndexStore.
func (s *ValkeyStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := s.client.Do(ctx, s.client.B().Get().Key(s.indexKey(key)).Build()).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return payload, true, nil
}

// Save implements faq.IndexStore.
func (s *ValkeyStore) Save(ctx context.Context, key string, payload []byte) error {
	cmd := s.client.B().Set().Key(s.indexKey(key)).Value(valkey.BinaryString(payload)).Build()
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) indexKey(fingerprint string) string {
	return fmt.Sprintf("%s:index:%s", s.prefix, fingerprint)
}

var _ faq.IndexStore = (*ValkeyStore)(nil)
