package settings

import (
	"errors"
	"fmt"
	"os"

	"github.com/glebarez/sqlite"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Setting is one stored preference. Values are JSON so structured
// preferences round-trip without a schema migration per field.
type Setting struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

const (
	keyTunnelAddress = "tunnel.address"
	keySocksPort     = "tunnel.socks_port"
	keyDNS           = "dns"
	keyRouting       = "routing"
	keySniffing      = "sniffing"
	keyLogLevel      = "log.level"
	keyDNSLog        = "log.dns_enabled"
	keyLogPaths      = "log.paths"
)

// Store persists preferences in sqlite.
type Store struct {
	db *gorm.DB
}

// Open connects to the settings database at path, creating and
// migrating it when missing.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open settings database: %w", err)
	}
	if err := db.AutoMigrate(&Setting{}); err != nil {
		return nil, fmt.Errorf("failed to migrate settings database: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) get(key string, v any) (bool, error) {
	var row Setting
	err := s.db.First(&row, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, unmarshalValue(row.Value, v)
}

func (s *Store) put(tx *gorm.DB, key string, v any) error {
	raw, err := marshalValue(v)
	if err != nil {
		return err
	}
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&Setting{Key: key, Value: raw}).Error
}

// Snapshot materializes the current preferences, filling any key the
// store does not hold from Default().
func (s *Store) Snapshot() (Snapshot, error) {
	snap := Default()
	reads := []struct {
		key string
		dst any
	}{
		{keyTunnelAddress, &snap.TunnelAddress},
		{keySocksPort, &snap.SocksPort},
		{keyDNS, &snap.DNS},
		{keyRouting, &snap.Routing},
		{keySniffing, &snap.Sniffing},
		{keyLogLevel, &snap.LogLevel},
		{keyDNSLog, &snap.DNSLogEnabled},
		{keyLogPaths, &snap.LogPaths},
	}
	for _, r := range reads {
		if _, err := s.get(r.key, r.dst); err != nil {
			return Snapshot{}, fmt.Errorf("failed to read setting %q: %w", r.key, err)
		}
	}
	return snap, nil
}

// Save writes every field of the snapshot in one transaction.
func (s *Store) Save(snap Snapshot) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		writes := []struct {
			key string
			val any
		}{
			{keyTunnelAddress, snap.TunnelAddress},
			{keySocksPort, snap.SocksPort},
			{keyDNS, snap.DNS},
			{keyRouting, snap.Routing},
			{keySniffing, snap.Sniffing},
			{keyLogLevel, snap.LogLevel},
			{keyDNSLog, snap.DNSLogEnabled},
			{keyLogPaths, snap.LogPaths},
		}
		for _, w := range writes {
			if err := s.put(tx, w.key, w.val); err != nil {
				return fmt.Errorf("failed to write setting %q: %w", w.key, err)
			}
		}
		return nil
	})
}

// seedFile mirrors Snapshot with yaml tags so a deployment can ship
// its preferences as a file instead of seeding the database by hand.
type seedFile struct {
	TunnelAddress string         `yaml:"tunnel_address"`
	SocksPort     int            `yaml:"socks_port"`
	DNS           *DNSConfig     `yaml:"dns"`
	Routing       *RoutingConfig `yaml:"routing"`
	LogLevel      string         `yaml:"log_level"`
	DNSLog        *bool          `yaml:"dns_log"`
	LogPaths      *LogPaths      `yaml:"log_paths"`
}

// SeedFromYAML overlays the file's values onto the current snapshot
// and saves the result. Absent fields keep their stored values.
func (s *Store) SeedFromYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	snap, err := s.Snapshot()
	if err != nil {
		return err
	}
	if seed.TunnelAddress != "" {
		snap.TunnelAddress = seed.TunnelAddress
	}
	if seed.SocksPort != 0 {
		snap.SocksPort = seed.SocksPort
	}
	if seed.DNS != nil {
		snap.DNS = *seed.DNS
	}
	if seed.Routing != nil {
		snap.Routing = *seed.Routing
	}
	if seed.LogLevel != "" {
		snap.LogLevel = seed.LogLevel
	}
	if seed.DNSLog != nil {
		snap.DNSLogEnabled = *seed.DNSLog
	}
	if seed.LogPaths != nil {
		snap.LogPaths = *seed.LogPaths
	}
	return s.Save(snap)
}
