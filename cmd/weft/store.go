package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/weft/pkg/adapters/file"
	"github.com/aretw0/weft/pkg/adapters/redis"
	"github.com/aretw0/weft/pkg/persistence/middleware"
	"github.com/aretw0/weft/pkg/ports"
	"github.com/spf13/cobra"
)

// encryptionKeyEnv holds a hex encoded 32-byte key. When set, snapshots are sealed at rest.
const encryptionKeyEnv = "WEFT_ENCRYPTION_KEY"

// openStore builds the store selected by the persistent flags. The returned close function
// must be called when the command is done.
func openStore(cmd *cobra.Command, mws ...middleware.Middleware) (ports.RunStore, func() error, error) {
	kind, _ := cmd.Flags().GetString("store")

	var (
		store   ports.RunStore
		closeFn = func() error { return nil }
	)
	switch kind {
	case "file", "":
		projectDir, _ := cmd.Flags().GetString("dir")
		if projectDir == "" {
			projectDir = "."
		}
		store = file.New(filepath.Join(projectDir, ".weft", "runs"))
	case "redis":
		addr, _ := cmd.Flags().GetString("redis-addr")
		prefix, _ := cmd.Flags().GetString("redis-prefix")
		var opts []redis.Option
		if prefix != "" {
			opts = append(opts, redis.WithPrefix(prefix))
		}
		rs := redis.New(addr, os.Getenv("WEFT_REDIS_PASSWORD"), 0, opts...)
		store, closeFn = rs, rs.Close
	default:
		return nil, nil, fmt.Errorf("unknown store %q (want file or redis)", kind)
	}

	if raw := os.Getenv(encryptionKeyEnv); raw != "" {
		key, err := hex.DecodeString(raw)
		if err != nil || len(key) != 32 {
			_ = closeFn()
			return nil, nil, fmt.Errorf("%s must be 64 hex characters", encryptionKeyEnv)
		}
		// Sealing is innermost so masking sees plain snapshots.
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}

	logger.Debug("store opened", "store", kind, "middlewares", len(mws))
	return middleware.Chain(store, mws...), closeFn, nil
}
