/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Seednode/scribble/games/scribble"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	allowedOrigins  []string
	bind            string
	defaultRounds   int
	endOnAllGuessed bool
	maxPlayers      int
	maxRooms        int
	minPlayers      int
	natsSubject     string
	natsURL         string
	playerGrace     time.Duration
	port            int
	prefix          string
	profile         bool
	publicURL       string
	roomGrace       time.Duration
	scoreDivisor    int
	scoreFloor      int
	suggestTimeout  time.Duration
	suggestURL      string
	tlsCert         string
	tlsKey          string
	transitionDelay time.Duration
	turnDuration    time.Duration
	verbose         bool
	version         bool
	wordsFile       string
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.defaultRounds < scribble.MinRounds || c.defaultRounds > scribble.MaxRounds {
		return fmt.Errorf("invalid default rounds (must be between %d-%d inclusive): %d", scribble.MinRounds, scribble.MaxRounds, c.defaultRounds)
	}
	if c.turnDuration < time.Second {
		return fmt.Errorf("invalid turn duration (must be at least 1s): %s", c.turnDuration)
	}
	if c.transitionDelay < 0 {
		return fmt.Errorf("invalid transition delay (must not be negative): %s", c.transitionDelay)
	}
	if c.scoreDivisor < 1 {
		return fmt.Errorf("invalid score divisor (must be at least 1): %d", c.scoreDivisor)
	}
	if c.minPlayers < 1 || c.minPlayers > c.maxPlayers {
		return fmt.Errorf("invalid minimum players (must be between 1-%d inclusive): %d", c.maxPlayers, c.minPlayers)
	}
	for _, u := range []string{c.publicURL, c.suggestURL} {
		if u == "" {
			continue
		}
		if parsed, err := url.Parse(u); err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("invalid url: %q", u)
		}
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("SCRIBBLE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "scribble",
		Short:         "An authoritative game server for draw-and-guess party games.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}

			setupLogging(cfg)

			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringSliceVar(&cfg.allowedOrigins, "allowed-origins", []string{"*"}, "origins allowed to connect, comma-separated (env: SCRIBBLE_ALLOWED_ORIGINS)")
	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: SCRIBBLE_BIND)")
	fs.IntVar(&cfg.defaultRounds, "default-rounds", scribble.DefaultRounds, "rounds per player in new rooms (env: SCRIBBLE_DEFAULT_ROUNDS)")
	fs.BoolVar(&cfg.endOnAllGuessed, "end-on-all-guessed", false, "end a turn early once every guesser has the word (env: SCRIBBLE_END_ON_ALL_GUESSED)")
	fs.IntVar(&cfg.maxPlayers, "max-players", scribble.DefaultMaxPlayers, "maximum players per room (env: SCRIBBLE_MAX_PLAYERS)")
	fs.IntVar(&cfg.maxRooms, "max-rooms", scribble.DefaultMaxRooms, "maximum concurrent rooms (env: SCRIBBLE_MAX_ROOMS)")
	fs.IntVar(&cfg.minPlayers, "min-players", scribble.DefaultMinPlayers, "players required to start a game (env: SCRIBBLE_MIN_PLAYERS)")
	fs.StringVar(&cfg.natsSubject, "nats-subject", "scribble.rooms", "subject prefix for mirrored room events (env: SCRIBBLE_NATS_SUBJECT)")
	fs.StringVar(&cfg.natsURL, "nats-url", "", "mirror public room events to this NATS server (env: SCRIBBLE_NATS_URL)")
	fs.DurationVar(&cfg.playerGrace, "player-grace", scribble.DefaultPlayerGrace, "time before disconnected players are removed (env: SCRIBBLE_PLAYER_GRACE)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: SCRIBBLE_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: SCRIBBLE_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: SCRIBBLE_PROFILE)")
	fs.StringVar(&cfg.publicURL, "public-url", "", "client URL encoded in room QR codes (env: SCRIBBLE_PUBLIC_URL)")
	fs.DurationVar(&cfg.roomGrace, "room-grace", scribble.DefaultRoomGrace, "time before rooms with nobody connected are closed (env: SCRIBBLE_ROOM_GRACE)")
	fs.IntVar(&cfg.scoreDivisor, "score-divisor", scribble.DefaultScoreDivisor, "seconds left are divided by this to score a guess (env: SCRIBBLE_SCORE_DIVISOR)")
	fs.IntVar(&cfg.scoreFloor, "score-floor", scribble.DefaultScoreFloor, "minimum points for a correct guess (env: SCRIBBLE_SCORE_FLOOR)")
	fs.DurationVar(&cfg.suggestTimeout, "suggest-timeout", scribble.DefaultSuggestTimeout, "time to wait for a suggested word (env: SCRIBBLE_SUGGEST_TIMEOUT)")
	fs.StringVar(&cfg.suggestURL, "suggest-url", "", "word suggestion service endpoint (env: SCRIBBLE_SUGGEST_URL)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: SCRIBBLE_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: SCRIBBLE_TLS_KEY)")
	fs.DurationVar(&cfg.transitionDelay, "transition-delay", scribble.DefaultTransitionDelay, "pause between turns (env: SCRIBBLE_TRANSITION_DELAY)")
	fs.DurationVar(&cfg.turnDuration, "turn-duration", scribble.DefaultTurnDuration, "time per drawing turn (env: SCRIBBLE_TURN_DURATION)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: SCRIBBLE_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: SCRIBBLE_VERSION)")
	fs.StringVar(&cfg.wordsFile, "words-file", "", "yaml word bank to use instead of the built-in one (env: SCRIBBLE_WORDS_FILE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("scribble v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

// gameOptions translates flags into registry options. The publisher and
// word sources are wired by the caller.
func (c *Config) gameOptions() scribble.Options {
	return scribble.Options{
		MaxRooms:        c.maxRooms,
		MaxPlayers:      c.maxPlayers,
		RoomGrace:       c.roomGrace,
		PlayerGrace:     c.playerGrace,
		TurnDuration:    c.turnDuration,
		TransitionDelay: c.transitionDelay,
		DefaultRounds:   c.defaultRounds,
		MinPlayers:      c.minPlayers,
		EndOnAllGuessed: c.endOnAllGuessed,
		ScoreFloor:      c.scoreFloor,
		ScoreDivisor:    c.scoreDivisor,
		SuggestTimeout:  c.suggestTimeout,
	}
}
