package pipeline

import (
	"github.com/JLSteenwyk/ecomp/errs"
	"github.com/JLSteenwyk/ecomp/internal/options"
	"github.com/JLSteenwyk/ecomp/order"
)

// Config holds the caller-tunable knobs: ordering_strategy, allow_gzip_fallback,
// verify_checksum, tree_newick.
type Config struct {
	OrderingStrategy  string
	AllowGzipFallback bool
	VerifyChecksum    bool
	TreeNewick        string
	SourceFormat      string
	GapThreshold      float64
}

// Option configures a Config, built on the generic functional-options package
// (internal/options) rather than a bespoke builder.
type Option = options.Option[*Config]

// DefaultConfig returns the Config Compress uses absent any Option: auto ordering,
// gzip fallback allowed, VerifyChecksum set (see WithVerifyChecksum), no tree hint.
func DefaultConfig() Config {
	return Config{
		OrderingStrategy:  "auto",
		AllowGzipFallback: true,
		VerifyChecksum:    true,
		GapThreshold:      order.DefaultGapThreshold,
	}
}

// WithOrderingStrategy overrides the ordering strategy ("auto", "baseline", "mst", or
// "greedy"; unrecognized values fall back to auto inside order.Optimize, so this
// option never fails).
func WithOrderingStrategy(strategy string) Option {
	return options.NoError(func(c *Config) { c.OrderingStrategy = strategy })
}

// WithAllowGzipFallback toggles the gzip-of-FASTA fallback path.
func WithAllowGzipFallback(allow bool) Option {
	return options.NoError(func(c *Config) { c.AllowGzipFallback = allow })
}

// WithVerifyChecksum sets Config.VerifyChecksum. Compress does not read it, and
// Decompress takes verification as its own verifyChecksum argument instead.
func WithVerifyChecksum(verify bool) Option {
	return options.NoError(func(c *Config) { c.VerifyChecksum = verify })
}

// WithTreeNewick supplies a Newick tree hint for the order optimizer's tree-guided
// ordering.
func WithTreeNewick(newick string) Option {
	return options.NoError(func(c *Config) { c.TreeNewick = newick })
}

// WithSourceFormat records the frame's originating file format, echoed into the
// fallback descriptor when the gzip path is taken.
func WithSourceFormat(sourceFormat string) Option {
	return options.NoError(func(c *Config) { c.SourceFormat = sourceFormat })
}

// WithGapThreshold overrides order.DefaultGapThreshold for the tree-order gap-heavy
// rejection rule.
func WithGapThreshold(threshold float64) Option {
	return options.NoError(func(c *Config) { c.GapThreshold = threshold })
}

// Apply applies opts over DefaultConfig(), returning the resolved Config. A Config
// option built with options.NoError never errors, but Apply still surfaces the
// generic Option[T] contract rather than special-casing a no-error path.
func Apply(opts ...Option) (Config, error) {
	cfg := DefaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return Config{}, errs.Config(err)
	}

	return cfg, nil
}
