package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ParseDSN parses a connection descriptor of the form
//
//	user:password@host[:port]/database
//
// The username ends at the first ':' and the password at the last '@', so
// passwords may contain both. Port is zero when absent.
func ParseDSN(dsn string) (AdapterConfig, error) {
	var cfg AdapterConfig

	user, rest, ok := strings.Cut(strings.TrimSpace(dsn), ":")
	if !ok {
		return cfg, errors.New("invalid connection descriptor: expected user:password@host/database")
	}

	at := strings.LastIndex(rest, "@")
	if at < 0 {
		return cfg, errors.New("invalid connection descriptor: missing '@' before host")
	}
	password, location := rest[:at], rest[at+1:]

	hostport, database, ok := strings.Cut(location, "/")
	if !ok {
		return cfg, errors.New("invalid connection descriptor: missing '/' before database")
	}

	host, portStr, hasPort := strings.Cut(hostport, ":")
	if host == "" {
		return cfg, errors.New("invalid connection descriptor: empty host")
	}
	if hasPort {
		port, err := strconv.Atoi(portStr)
		if err != nil || port <= 0 || port > 65535 {
			return cfg, fmt.Errorf("invalid connection descriptor: bad port %q", portStr)
		}
		cfg.Port = port
	}

	cfg.Username = user
	cfg.Password = password
	cfg.Host = host
	cfg.Database = database
	return cfg, nil
}

// Snapshot is the persisted form of a connection: enough to reconnect, with
// no live state.
type Snapshot struct {
	Host     string `json:"host,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Database string `json:"database"`
	Port     int    `json:"port,omitempty"`
}

// SnapshotOf captures the connection fields of cfg.
func SnapshotOf(cfg AdapterConfig) Snapshot {
	return Snapshot{
		Host:     cfg.Host,
		Username: cfg.Username,
		Password: cfg.Password,
		Database: cfg.Database,
		Port:     cfg.Port,
	}
}

// Apply returns cfg with its connection fields replaced by the snapshot's.
func (s Snapshot) Apply(cfg AdapterConfig) AdapterConfig {
	cfg.Host = s.Host
	cfg.Username = s.Username
	cfg.Password = s.Password
	cfg.Database = s.Database
	cfg.Port = s.Port
	return cfg
}
