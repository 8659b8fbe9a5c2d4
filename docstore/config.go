package docstore

// Config holds configuration for the Store.
type Config struct {
	// TableName is the DynamoDB table holding walker items.
	// Default: "walkers"
	TableName string

	// PageSize is the Scan page limit used by FindAll.
	// Default: 100
	// Max: 1000
	PageSize int32

	// ConsistentRead makes GetItem and Scan strongly consistent so a walker
	// read right after an append observes it.
	// Default: true
	ConsistentRead bool
}

// DefaultConfig returns sensible defaults for small datasets.
func DefaultConfig() Config {
	return Config{
		TableName:      "walkers",
		PageSize:       100,
		ConsistentRead: true,
	}
}

// validate ensures config values are within acceptable bounds.
func (c *Config) validate() {
	if c.TableName == "" {
		c.TableName = "walkers"
	}
	if c.PageSize < 1 {
		c.PageSize = 100
	}
	if c.PageSize > 1000 {
		c.PageSize = 1000
	}
}
