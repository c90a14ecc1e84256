// Package settings loads server settings from an optional file plus
// INFERFORM_* environment variables and keeps an immutable snapshot that is
// swapped when the file changes on disk.
package settings

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/goliatone/go-inferform/pkg/csvpreview"
	"github.com/goliatone/go-inferform/pkg/session"
)

// EnvPrefix is prepended to every environment override, e.g.
// INFERFORM_PREVIEW_ROWS or INFERFORM_THEME_VARIANT.
const EnvPrefix = "INFERFORM"

const (
	DefaultUpstream       = "http://localhost:8000"
	DefaultMaxUploadBytes = 32 << 20
)

// ErrInvalid wraps settings that decode but cannot be used.
var ErrInvalid = errors.New("settings: invalid value")

// Settings is the decoded configuration.
type Settings struct {
	Upstream       string        `mapstructure:"upstream"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	PreviewRows    int           `mapstructure:"preview_rows"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"` // request body cap on /predict and /batch
	ViewTTL        time.Duration `mapstructure:"view_ttl"`
	MaxViews       int           `mapstructure:"max_views"`
	Theme          Theme         `mapstructure:"theme"`
}

type Theme struct {
	Variant string `mapstructure:"variant"`
}

// Defaults returns the settings used when neither a file nor the
// environment provides a value. RequestTimeout stays zero: no timeout.
func Defaults() Settings {
	return Settings{
		Upstream:       DefaultUpstream,
		PreviewRows:    csvpreview.DefaultRows,
		MaxUploadBytes: DefaultMaxUploadBytes,
		ViewTTL:        session.DefaultTTL,
		MaxViews:       session.DefaultMaxViews,
	}
}

// Snapshot is a read-only view of the settings at one point in time.
type Snapshot struct {
	Settings
	Version  int64
	LoadedAt time.Time
	Source   string
}

// ChangeListener is called with the new snapshot after a successful reload.
type ChangeListener func(Snapshot)

// Option adjusts the loader before the first decode.
type Option func(*viper.Viper)

// WithUpstream pins the upstream URL, typically from a command-line flag.
// Pinned values win over the file and the environment on every reload.
func WithUpstream(url string) Option {
	return func(v *viper.Viper) {
		if strings.TrimSpace(url) != "" {
			v.Set("upstream", url)
		}
	}
}

// WithValue pins an arbitrary key.
func WithValue(key string, value any) Option {
	return func(v *viper.Viper) {
		v.Set(key, value)
	}
}

// Store owns the viper instance and the current snapshot.
type Store struct {
	path string
	v    *viper.Viper

	mu        sync.RWMutex
	snapshot  Snapshot
	listeners []ChangeListener
}

// Load reads path (YAML, JSON or TOML by extension) and the environment. An
// empty path loads defaults and the environment only.
func Load(path string, opts ...Option) (*Store, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}

	path = strings.TrimSpace(path)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("settings: read %s: %w", path, err)
		}
	}

	store := &Store{path: path, v: v}
	if err := store.decode(); err != nil {
		return nil, err
	}
	return store, nil
}

// Watch starts watching the settings file. Invalid edits are logged and the
// previous snapshot stays in effect.
func (s *Store) Watch() {
	if s.path == "" {
		return
	}
	s.v.OnConfigChange(func(evt fsnotify.Event) {
		if err := s.decode(); err != nil {
			log.Printf("settings reload failed (%s): %v", evt.Name, err)
			return
		}
		snap := s.Snapshot()
		log.Printf("settings reloaded from %s (version %d)", filepath.Base(s.path), snap.Version)
		s.notify(snap)
	})
	s.v.WatchConfig()
}

// Reload rereads the file and swaps the snapshot.
func (s *Store) Reload() error {
	if s.path != "" {
		if err := s.v.ReadInConfig(); err != nil {
			return fmt.Errorf("settings: read %s: %w", s.path, err)
		}
	}
	if err := s.decode(); err != nil {
		return err
	}
	s.notify(s.Snapshot())
	return nil
}

// Snapshot returns the current settings.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Subscribe registers fn for future reloads.
func (s *Store) Subscribe(fn ChangeListener) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Store) notify(snap Snapshot) {
	s.mu.RLock()
	listeners := append([]ChangeListener(nil), s.listeners...)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(snap)
	}
}

func (s *Store) decode() error {
	var cfg Settings
	if err := s.v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return fmt.Errorf("settings: decode: %w", err)
	}
	if err := normalize(&cfg); err != nil {
		return err
	}

	s.mu.Lock()
	s.snapshot = Snapshot{
		Settings: cfg,
		Version:  s.snapshot.Version + 1,
		LoadedAt: time.Now(),
		Source:   s.path,
	}
	s.mu.Unlock()
	return nil
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("upstream", d.Upstream)
	v.SetDefault("request_timeout", d.RequestTimeout)
	v.SetDefault("preview_rows", d.PreviewRows)
	v.SetDefault("max_upload_bytes", d.MaxUploadBytes)
	v.SetDefault("view_ttl", d.ViewTTL)
	v.SetDefault("max_views", d.MaxViews)
	v.SetDefault("theme.variant", d.Theme.Variant)
}

func normalize(cfg *Settings) error {
	cfg.Upstream = strings.TrimRight(strings.TrimSpace(cfg.Upstream), "/")
	cfg.Theme.Variant = strings.TrimSpace(cfg.Theme.Variant)

	switch {
	case cfg.Upstream == "":
		return fmt.Errorf("%w: upstream is required", ErrInvalid)
	case cfg.RequestTimeout < 0:
		return fmt.Errorf("%w: request_timeout must not be negative", ErrInvalid)
	case cfg.PreviewRows <= 0:
		return fmt.Errorf("%w: preview_rows must be positive", ErrInvalid)
	case cfg.MaxUploadBytes <= 0:
		return fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalid)
	case cfg.ViewTTL <= 0:
		return fmt.Errorf("%w: view_ttl must be positive", ErrInvalid)
	case cfg.MaxViews <= 0:
		return fmt.Errorf("%w: max_views must be positive", ErrInvalid)
	}
	return nil
}
