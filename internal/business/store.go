package business

import (
	"context"
	"fmt"
	"os"

	"github.com/valkey-io/valkey-go"

	slogctx "github.com/veqryn/slog-context"

	"github.com/mshando/marketplace-client/internal/config"
	"github.com/mshando/marketplace-client/pkg/tokenstore"
	tokenstorefile "github.com/mshando/marketplace-client/pkg/tokenstore/file"
	tokenstorevalkey "github.com/mshando/marketplace-client/pkg/tokenstore/valkey"
)

// NewStore opens the configured credential store. closeFn releases the
// backend connection and is never nil on success.
func NewStore(ctx context.Context, cfg *config.Config) (_ tokenstore.Store, closeFn func(), _ error) {
	switch cfg.TokenStore.Type {
	case config.TokenStoreMemory:
		return tokenstore.NewMemory(), func() {}, nil
	case config.TokenStoreFile, "":
		path := os.ExpandEnv(cfg.TokenStore.Path)
		slogctx.Debug(ctx, "Using the file token store", "path", path)

		return tokenstorefile.NewStore(path), func() {}, nil
	case config.TokenStoreValKey:
		client, err := valkeyClientFromConfig(cfg)
		if err != nil {
			return nil, nil, err
		}

		return tokenstorevalkey.NewStore(client, cfg.ValKey.Prefix), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown token store type %q", cfg.TokenStore.Type)
	}
}

func valkeyClientFromConfig(cfg *config.Config) (valkey.Client, error) {
	opts, err := config.MakeValkeyOptions(cfg.ValKey)
	if err != nil {
		return nil, fmt.Errorf("making valkey options from config: %w", err)
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("creating a new valkey client: %w", err)
	}

	return client, nil
}
