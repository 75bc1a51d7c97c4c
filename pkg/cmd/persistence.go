package cmd

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/chatforge/chatforge/pkg/persistence"
	"github.com/chatforge/chatforge/pkg/persistence/file"
	"github.com/chatforge/chatforge/pkg/persistence/supabase"
)

// NewPersistence builds a flow store from a database URL.
//
// supabase://<project-ref>.supabase.co selects the hosted store; the service
// key comes from SUPABASE_SERVICE_KEY. Anything else is treated as a local
// directory for the file store. redisURL is optional and only used by the
// hosted store as a read-through cache.
func NewPersistence(databaseURL, redisURL string, logger *slog.Logger) persistence.Persistence {
	if strings.HasPrefix(databaseURL, "supabase://") {
		projectURL := "https://" + strings.TrimPrefix(databaseURL, "supabase://")

		serviceKey := os.Getenv("SUPABASE_SERVICE_KEY")
		if serviceKey == "" {
			panic("SUPABASE_SERVICE_KEY is required for the supabase persistence provider")
		}

		store, err := supabase.NewPersistence(projectURL, serviceKey, newRedisClient(redisURL), logger)
		if err != nil {
			panic(fmt.Errorf("failed to create supabase persistence: %w", err))
		}

		return store
	}

	return file.NewPersistence(strings.TrimPrefix(databaseURL, "file://"))
}

func newRedisClient(redisURL string) *redis.Client {
	if redisURL == "" {
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		panic(fmt.Errorf("invalid redis URL: %w", err))
	}

	return redis.NewClient(opts)
}

// ParseProvider reports which store a database URL selects, for logging.
func ParseProvider(databaseURL string) string {
	if parsed, err := url.Parse(databaseURL); err == nil && parsed.Scheme == "supabase" {
		return "supabase"
	}

	return "file"
}
