package irc

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// DefaultPort is used when Config.Port is zero.
const DefaultPort = 6667

const (
	defaultRealname    = "..."
	defaultQuitTimeout = 3 * time.Second
)

var (
	errNickMissing   = errors.New("config: nick is required")
	errServerMissing = errors.New("config: host or websocket-url is required")
)

// Config describes how a Client connects and identifies itself.
//
// It can be built in code or loaded from a YAML file with LoadConfig:
//
//	host: irc.example.net
//	port: 6667
//	nick: gopher
//	realname: Gopher Bot
//	encoding: iso-8859-1
//	idle-timeout: 5m
type Config struct {
	// Host and Port address the server. Port defaults to 6667.
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// WebSocketURL, when set, connects over a WebSocket (ws:// or wss://) instead of TCP.
	// Host and Port are ignored.
	WebSocketURL string `yaml:"websocket-url"`

	// Nick is the nickname requested at login (required). Nicknames cannot contain spaces.
	Nick string `yaml:"nick"`

	// User is the username. It defaults to Nick.
	User string `yaml:"user"`

	// Realname is also referred to as the gecos field. It may contain spaces.
	Realname string `yaml:"realname"`

	// Mode is the user mode bitmask sent with USER (RFC 2812: 4 for +w, 8 for +i).
	Mode int `yaml:"mode"`

	// Pass is the connection password. PASS is only sent when it is set.
	Pass string `yaml:"pass"`

	// Encoding names the character encoding of the connection, e.g. "iso-2022-jp".
	// Empty means UTF-8.
	Encoding string `yaml:"encoding"`

	// IdleTimeout closes the session when nothing has been read for this long.
	// Zero disables the timeout. It only applies to connections that support read deadlines.
	IdleTimeout time.Duration `yaml:"idle-timeout"`

	// QuitTimeout is how long ConnectAndRun waits for the server to close the link after QUIT.
	QuitTimeout time.Duration `yaml:"quit-timeout"`

	// QuitMessage is sent with the QUIT issued by ConnectAndRun.
	QuitMessage string `yaml:"quit-message"`
}

// LoadConfig reads a YAML configuration file.
// The result is validated and has defaults applied.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	config := new(Config)
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("config %s: %w", filename, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks required fields and fills in defaults.
func (cfg *Config) Validate() error {
	if cfg.Nick == "" {
		return errNickMissing
	}
	if strings.ContainsAny(cfg.Nick, " \r\n\x00") {
		return fmt.Errorf("config: invalid nick %q", cfg.Nick)
	}
	if cfg.Host == "" && cfg.WebSocketURL == "" {
		return errServerMissing
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", cfg.Port)
	}
	if cfg.User == "" {
		cfg.User = cfg.Nick
	}
	if strings.ContainsAny(cfg.User, " \r\n\x00") {
		return fmt.Errorf("config: invalid user %q", cfg.User)
	}
	if cfg.Realname == "" {
		// Realname is required by the protocol but rarely matters to users of this package.
		cfg.Realname = defaultRealname
	}
	if strings.ContainsAny(cfg.Realname, "\r\n\x00") {
		return fmt.Errorf("config: invalid realname %q", cfg.Realname)
	}
	if strings.ContainsAny(cfg.Pass, "\r\n\x00") {
		return errors.New("config: invalid pass")
	}
	if cfg.QuitTimeout <= 0 {
		cfg.QuitTimeout = defaultQuitTimeout
	}
	if cfg.IdleTimeout < 0 {
		return fmt.Errorf("config: negative idle-timeout %s", cfg.IdleTimeout)
	}
	if _, err := lookupEncoding(cfg.Encoding); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Addr returns "host:port".
func (cfg *Config) Addr() string {
	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}
	return net.JoinHostPort(cfg.Host, strconv.Itoa(port))
}

// LoginParams returns the registration parameters described by cfg.
func (cfg *Config) LoginParams() LoginParams {
	return LoginParams{
		Nick:     cfg.Nick,
		User:     cfg.User,
		Realname: cfg.Realname,
		Mode:     cfg.Mode,
		Pass:     cfg.Pass,
	}
}

// LoginParams are sent to the server to register the connection.
type LoginParams struct {
	Nick     string
	User     string
	Realname string
	Mode     int

	// Pass is optional; PASS is not sent when it is empty.
	Pass string
}
