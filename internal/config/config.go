package config

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"strsym/internal/emit"
	"strsym/internal/lexer"
	"strsym/internal/symtab"
)

// FileName is the manifest name looked up by Find.
const FileName = "strsym.toml"

var (
	// ErrUnknownKey indicates a key in the manifest that strsym does not know.
	ErrUnknownKey = errors.New("unknown configuration key")
	// ErrInvalid indicates a value that fails validation.
	ErrInvalid = errors.New("invalid configuration")
)

type Symbols struct {
	MinLength   int    `toml:"min_length"`
	Prefix      string `toml:"prefix"`
	Collision   string `toml:"collision"`
	Order       string `toml:"order"`
	FoldUnicode bool   `toml:"fold_unicode"`
}

type Scan struct {
	LiteralMode     string   `toml:"literal_mode"`
	ExtraDirectives []string `toml:"extra_directives"`
}

type Output struct {
	Header     bool     `toml:"header"`
	Extensions []string `toml:"extensions"`
}

// Config is the decoded strsym.toml.
type Config struct {
	Symbols Symbols `toml:"symbols"`
	Scan    Scan    `toml:"scan"`
	Output  Output  `toml:"output"`

	// Path is the manifest the values came from; empty for defaults.
	Path string `toml:"-"`
}

// Default returns the configuration used when no manifest is found.
func Default() Config {
	return Config{
		Symbols: Symbols{
			MinLength: symtab.DefaultMinLength,
			Prefix:    symtab.DefaultPrefix,
			Collision: symtab.CollisionSuffix.String(),
			Order:     symtab.OrderInsertion.String(),
		},
		Scan: Scan{
			LiteralMode:     lexer.LiteralStrict.String(),
			ExtraDirectives: []string{},
		},
		Output: Output{
			Extensions: []string{".c", ".h"},
		},
	}
}

// Load decodes the manifest at path on top of Default and validates it.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: %w: %s", path, ErrUnknownKey, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Find walks up from startDir to locate strsym.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest manifest above startDir, or returns Default.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks every value against the accepted ranges and spellings.
func (c *Config) Validate() error {
	var errs []error
	if c.Symbols.MinLength < 0 {
		errs = append(errs, fmt.Errorf("symbols.min_length must be >= 0, got %d", c.Symbols.MinLength))
	}
	if !isWord(c.Symbols.Prefix) {
		errs = append(errs, fmt.Errorf("symbols.prefix %q may contain only letters, digits and '_'", c.Symbols.Prefix))
	}
	if _, err := symtab.ParseCollision(c.Symbols.Collision); err != nil {
		errs = append(errs, fmt.Errorf("symbols.collision: %w", err))
	}
	if _, err := symtab.ParseOrder(c.Symbols.Order); err != nil {
		errs = append(errs, fmt.Errorf("symbols.order: %w", err))
	}
	if _, err := lexer.ParseLiteralMode(c.Scan.LiteralMode); err != nil {
		errs = append(errs, fmt.Errorf("scan.literal_mode: %w", err))
	}
	for _, kw := range c.Scan.ExtraDirectives {
		if kw == "" || !isWord(kw) {
			errs = append(errs, fmt.Errorf("scan.extra_directives: %q is not a directive keyword", kw))
		}
	}
	for _, ext := range c.Output.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			errs = append(errs, fmt.Errorf("output.extensions: %q must start with '.'", ext))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// SymbolOptions converts the [symbols] table to interner options.
func (c *Config) SymbolOptions() (symtab.Options, error) {
	collision, err := symtab.ParseCollision(c.Symbols.Collision)
	if err != nil {
		return symtab.Options{}, err
	}
	order, err := symtab.ParseOrder(c.Symbols.Order)
	if err != nil {
		return symtab.Options{}, err
	}
	return symtab.Options{
		MinLength:   c.Symbols.MinLength,
		Prefix:      c.Symbols.Prefix,
		Collision:   collision,
		Order:       order,
		FoldUnicode: c.Symbols.FoldUnicode,
	}, nil
}

// LexerOptions converts the [scan] table to lexer options.
func (c *Config) LexerOptions() (lexer.Options, error) {
	mode, err := lexer.ParseLiteralMode(c.Scan.LiteralMode)
	if err != nil {
		return lexer.Options{}, err
	}
	return lexer.Options{
		Mode:            mode,
		ExtraDirectives: append([]string(nil), c.Scan.ExtraDirectives...),
	}, nil
}

// EmitOptions converts the [output] table to assembler options.
func (c *Config) EmitOptions() emit.Options {
	return emit.Options{Header: c.Output.Header}
}

// MatchesExtension reports whether path is selected for batch mode.
func (c *Config) MatchesExtension(path string) bool {
	ext := filepath.Ext(path)
	for _, want := range c.Output.Extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

// Fingerprint hashes every value that influences the transformed output.
// The result cache keys entries by it.
func (c *Config) Fingerprint() [32]byte {
	h := sha256.New()
	fmt.Fprintf(h, "min=%d\x00prefix=%s\x00collision=%s\x00order=%s\x00fold=%t\x00",
		c.Symbols.MinLength, c.Symbols.Prefix,
		strings.ToLower(c.Symbols.Collision), strings.ToLower(c.Symbols.Order), c.Symbols.FoldUnicode)
	fmt.Fprintf(h, "mode=%s\x00header=%t\x00", strings.ToLower(c.Scan.LiteralMode), c.Output.Header)
	for _, kw := range c.Scan.ExtraDirectives {
		fmt.Fprintf(h, "dir=%s\x00", kw)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Encode writes c as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

func isWord(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b != '_' && (b < 'A' || b > 'Z') && (b < 'a' || b > 'z') && (b < '0' || b > '9') {
			return false
		}
	}
	return true
}
