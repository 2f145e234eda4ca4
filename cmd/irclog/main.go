// Command irclog connects to an IRC server, joins channels and logs what is said in them.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/docopt/docopt-go"
	"gopkg.in/yaml.v2"

	irc "github.com/Travis-Britz/ircore"
	"github.com/Travis-Britz/ircore/ircdebug"
)

var version = "dev"

// config is the client configuration plus the channels to log.
type config struct {
	irc.Config `yaml:",inline"`
	Channels   []string `yaml:"channels"`
}

func loadConfig(filename string) (*config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	cfg := new(config)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", filename, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	usage := `irclog.
Usage:
	irclog [--conf <filename>] [--debug]
	irclog -h | --help
	irclog --version
Options:
	--conf <filename>  Configuration file to use [default: irclog.yaml].
	--debug            Log every line sent and received.
	-h --help          Show this screen.
	--version          Show version.`

	arguments, _ := docopt.ParseArgs(usage, nil, version)

	cfg, err := loadConfig(arguments["--conf"].(string))
	if err != nil {
		log.Fatal("config file error: ", err)
	}

	d := &irc.Dispatcher{Ordered: true}
	client, err := irc.NewClient(cfg.Config, d)
	if err != nil {
		log.Fatal(err)
	}
	if arguments["--debug"].(bool) {
		dial := client.DialFn
		client.DialFn = func(ctx context.Context, addr string) (io.ReadWriteCloser, error) {
			conn, err := dial(ctx, addr)
			if err != nil {
				return nil, err
			}
			return ircdebug.LogTo(irc.StdLogger{}, conn), nil
		}
	}
	client.OnStateChange = func(s *irc.Session, from, to irc.State) {
		log.Printf("%s: %s -> %s", s.ID, from, to)
	}

	register(d, client, cfg.Channels)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := client.ConnectAndRun(ctx); err != nil {
		log.Fatal(err)
	}
}

// register wires the handlers irclog needs; the client core answers nothing on its own.
func register(d *irc.Dispatcher, client *irc.Client, channels []string) {
	d.HandleFunc(irc.CmdPing, func(w irc.MessageWriter, m *irc.Message) error {
		return w.WriteMessage(irc.Pong(m.Last()))
	})

	d.OnConnect(func(w irc.MessageWriter, m *irc.Message) error {
		for _, ch := range channels {
			if err := w.WriteMessage(irc.Join(ch)); err != nil {
				return err
			}
		}
		return nil
	})

	// keep trying with a longer nick until the server accepts one
	d.OnNumeric(irc.RplErrNicknameInUse, func(w irc.MessageWriter, m *irc.Message) error {
		return w.WriteMessage(irc.Nick(m.Arg(2) + "_"))
	})

	d.OnCTCP("VERSION", func(w irc.MessageWriter, m *irc.Message) error {
		return w.WriteMessage(irc.CTCPReply(m.Source.Nick.String(), "VERSION", "irclog "+version))
	})

	logLine := func(w irc.MessageWriter, m *irc.Message) error {
		target, _ := m.Chan()
		if target == "" {
			target = "query"
		}
		log.Printf("[%s] <%s> %s", target, m.Source.Nick, m.PlainText())
		return nil
	}
	d.OnText("*", logLine)
	d.OnNotice("*", logLine)
	d.OnAction("*", func(w irc.MessageWriter, m *irc.Message) error {
		target, _ := m.Chan()
		for _, f := range m.CTCP() {
			if f.Command != "ACTION" {
				continue
			}
			log.Printf("[%s] * %s %s", target, m.Source.Nick, irc.StripFormatting(f.Argument))
		}
		return nil
	})
	d.OnJoin(func(w irc.MessageWriter, m *irc.Message) error {
		ch, _ := m.Chan()
		log.Printf("[%s] %s joined", ch, m.Source.Nick)
		return nil
	}).Match(irc.Not(irc.MatchClient(client)))
	d.OnError(func(w irc.MessageWriter, m *irc.Message) error {
		log.Printf("server closed the link: %s", m.Last())
		return nil
	})
}
