package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// OutputFormat selects how results are presented.
type OutputFormat string

const (
	OutputJSON   OutputFormat = "json"
	OutputHuman  OutputFormat = "human"
	OutputBrowse OutputFormat = "browse"
)

// Environment variables consulted by Build.
const (
	EnvAPIKey     = "S2_API_KEY"
	EnvZoteroPath = "ZOTREC_ZOTERO_PATH"
	EnvCachePath  = "ZOTREC_CACHE_PATH"
	EnvLimit      = "ZOTREC_LIMIT"
	EnvMaxInput   = "ZOTREC_MAX_INPUT"
)

const (
	DefaultLimit    = 20
	DefaultMaxInput = 100

	// MaxLimit is the provider's ceiling on recommendations per request.
	MaxLimit = 500
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid configuration")

// Run is the immutable settings snapshot for one invocation. It is built
// once and passed by value; nothing reads process-global flags after Build.
type Run struct {
	ZoteroPath string
	CachePath  string
	APIKey     string

	Limit    int
	MaxInput int

	ForceUpdate bool

	// Collection restricts titles to one collection when non-empty.
	Collection            string
	IncludeSubcollections bool

	Output  OutputFormat
	Verbose bool
}

// Flags carries command-line overrides. Nil pointers mean "not given".
type Flags struct {
	ZoteroPath *string
	CachePath  *string
	APIKey     *string
	Limit      *int
	MaxInput   *int

	ForceUpdate           bool
	Collection            string
	IncludeSubcollections bool
	Output                OutputFormat
	Verbose               bool
}

// Defaults returns the settings used when nothing else is configured.
func Defaults() Run {
	return Run{
		ZoteroPath: DefaultZoteroPath(),
		CachePath:  DefaultCachePath(),
		Limit:      DefaultLimit,
		MaxInput:   DefaultMaxInput,
		Output:     OutputJSON,
	}
}

// DefaultZoteroPath returns ~/Zotero/zotero.sqlite.
func DefaultZoteroPath() string {
	return ExpandPath(filepath.Join("~", "Zotero", "zotero.sqlite"))
}

// DefaultCachePath returns the title cache location.
// Respects XDG_CACHE_HOME, defaults to ~/.cache/zotrec/titles.json.
func DefaultCachePath() string {
	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return CacheFile
		}
		cacheHome = filepath.Join(home, ".cache")
	}
	return filepath.Join(cacheHome, AppDir, CacheFile)
}

// Build merges the layers with precedence flag > env > global > default.
// getenv is usually os.Getenv; global may be nil.
func Build(global *GlobalConfig, getenv func(string) string, flags Flags) (Run, error) {
	r := Defaults()

	if global != nil {
		setString(&r.ZoteroPath, global.ZoteroPath)
		setString(&r.CachePath, global.CachePath)
		setString(&r.APIKey, global.S2APIKey)
		setInt(&r.Limit, global.Limit)
		setInt(&r.MaxInput, global.MaxInput)
	}

	if getenv != nil {
		setString(&r.ZoteroPath, ExpandPath(getenv(EnvZoteroPath)))
		setString(&r.CachePath, ExpandPath(getenv(EnvCachePath)))
		setString(&r.APIKey, getenv(EnvAPIKey))
		if err := setIntEnv(&r.Limit, getenv, EnvLimit); err != nil {
			return Run{}, err
		}
		if err := setIntEnv(&r.MaxInput, getenv, EnvMaxInput); err != nil {
			return Run{}, err
		}
	}

	if flags.ZoteroPath != nil {
		r.ZoteroPath = ExpandPath(*flags.ZoteroPath)
	}
	if flags.CachePath != nil {
		r.CachePath = ExpandPath(*flags.CachePath)
	}
	if flags.APIKey != nil {
		r.APIKey = *flags.APIKey
	}
	if flags.Limit != nil {
		r.Limit = *flags.Limit
	}
	if flags.MaxInput != nil {
		r.MaxInput = *flags.MaxInput
	}
	if flags.Output != "" {
		r.Output = flags.Output
	}
	r.ForceUpdate = flags.ForceUpdate
	r.Collection = flags.Collection
	r.IncludeSubcollections = flags.IncludeSubcollections
	r.Verbose = flags.Verbose

	if err := r.Validate(); err != nil {
		return Run{}, err
	}
	return r, nil
}

// Validate checks ranges and required values.
func (r Run) Validate() error {
	if r.ZoteroPath == "" {
		return fmt.Errorf("%w: zotero path is empty", ErrInvalid)
	}
	if r.CachePath == "" {
		return fmt.Errorf("%w: cache path is empty", ErrInvalid)
	}
	if r.Limit < 1 || r.Limit > MaxLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d, got %d", ErrInvalid, MaxLimit, r.Limit)
	}
	if r.MaxInput < 1 || r.MaxInput > DefaultMaxInput {
		return fmt.Errorf("%w: max input must be between 1 and %d, got %d", ErrInvalid, DefaultMaxInput, r.MaxInput)
	}
	switch r.Output {
	case OutputJSON, OutputHuman, OutputBrowse:
	default:
		return fmt.Errorf("%w: unknown output format %q", ErrInvalid, r.Output)
	}
	if r.IncludeSubcollections && r.Collection == "" {
		return fmt.Errorf("%w: subcollections requested without a collection", ErrInvalid)
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setIntEnv(dst *int, getenv func(string) string, key string) error {
	v := getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalid, key, v)
	}
	*dst = n
	return nil
}

// HelpfulConfigMessage returns guidance for a missing Zotero database.
func HelpfulConfigMessage(zoteroPath string) string {
	return fmt.Sprintf(`Zotero database not found at %s

Point zotrec at your library with --zotero, or set zotero_path in
%s:

  zotero_path: ~/Zotero/zotero.sqlite`, zoteroPath, GlobalConfigPath())
}
