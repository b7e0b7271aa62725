package core

import (
	"net"
	"strconv"
)

// AdapterConfig names a database and how to reach it. File engines use
// Path; server engines use Host, Port and Database.
type AdapterConfig struct {
	Type     string
	Path     string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Schema   string

	// Options are passed verbatim as DSN query parameters.
	Options map[string]string
	// Params are engine settings applied after the pool opens.
	Params map[string]any
}

// IsFile reports whether the config points at a local database file.
func (c AdapterConfig) IsFile() bool {
	return c.Path != ""
}

// Location is where the config points: the file path, or host:port/database.
func (c AdapterConfig) Location() string {
	if c.IsFile() {
		return c.Path
	}
	host := c.Host
	if c.Port > 0 {
		host = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	}
	if c.Database == "" {
		return host
	}
	return host + "/" + c.Database
}

// String renders the config for logs. The password is never included.
func (c AdapterConfig) String() string {
	s := c.Type + ":"
	if c.Username != "" && !c.IsFile() {
		s += c.Username + "@"
	}
	return s + c.Location()
}
