package compile

import "flag"

// DefaultMaxCacheEntries is the default bound on the artifact cache.
const DefaultMaxCacheEntries = 1000

// Config configures the expression compiler.
type Config struct {
	// MaxCacheEntries bounds the number of compiled row artifacts retained
	// in the cache. A value of 0 or less disables caching: every request
	// compiles. Correctness never depends on the cache being populated.
	MaxCacheEntries int `yaml:"max_cache_entries"`
}

// RegisterFlags registers flags for the compiler configuration.
func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	cfg.RegisterFlagsWithPrefix("", f)
}

// RegisterFlagsWithPrefix registers flags for the compiler configuration
// with a prefix on every flag name.
func (cfg *Config) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	f.IntVar(&cfg.MaxCacheEntries, prefix+"compile.max-cache-entries", DefaultMaxCacheEntries,
		"Maximum number of compiled row artifacts retained in the cache. 0 disables caching.")
}
