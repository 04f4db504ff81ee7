package cli

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"netwebquiz/internal/api"
	"netwebquiz/internal/auth"
	"netwebquiz/internal/config"
	"netwebquiz/internal/domain"
	"netwebquiz/internal/lib/clog"
	"netwebquiz/internal/socket"
)

var (
	configPath string
	serverURL  string
	socketURL  string
	verbose    bool
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envServer := os.Getenv("NETWEBQUIZ_SERVER")
	envSocket := os.Getenv("NETWEBQUIZ_SOCKET")
	envConfig := os.Getenv("NETWEBQUIZ_CONFIG")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:   "netwebquiz",
		Short: "Quiz client: solo quizzes, live 1v1 challenges, lobby and chat",
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&serverURL, "server", envServer, "API base URL")
	cmd.PersistentFlags().StringVar(&socketURL, "socket", envSocket, "socket channel URL")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(NewLoginCmd())
	cmd.AddCommand(NewRegisterCmd())
	cmd.AddCommand(NewLogoutCmd())
	cmd.AddCommand(NewWhoamiCmd())
	cmd.AddCommand(NewThemesCmd())
	cmd.AddCommand(NewPlayCmd())
	cmd.AddCommand(NewChallengeCmd())
	cmd.AddCommand(NewLobbyCmd())
	cmd.AddCommand(NewLeaderboardCmd())
	cmd.AddCommand(NewChatCmd())
	cmd.AddCommand(NewNewsCmd())
	cmd.AddCommand(NewProfileCmd())
	cmd.AddCommand(NewCommentsCmd())
	cmd.AddCommand(NewSettingsCmd())
	cmd.AddCommand(NewAdminCmd())
	return cmd
}

// app bundles everything a subcommand needs; built once per invocation.
type app struct {
	cfg    config.Config
	log    *slog.Logger
	store  *auth.Store
	client *api.Client
	cache  *api.QuestionCache
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := clog.New(os.Stderr, level)

	store := auth.NewStore(cfg.CredentialsPath())
	client := api.NewClient(apiBase(cfg), store, config.Duration(cfg.API.Timeout, 15*time.Second), log)
	cache := api.NewQuestionCache(client, config.Duration(cfg.Quiz.CacheTTL, 10*time.Minute))

	return &app{cfg: cfg, log: log, store: store, client: client, cache: cache}, nil
}

func apiBase(cfg config.Config) string {
	if serverURL != "" {
		return serverURL
	}
	if cfg.API.BaseURL != "" {
		return cfg.API.BaseURL
	}
	return "http://localhost:8080"
}

// connect opens the event channel with the stored bearer token.
func (a *app) connect(ctx context.Context) (*socket.Conn, error) {
	token, err := a.store.Token()
	if err != nil {
		return nil, err
	}

	target := socketURL
	if target == "" {
		target = a.cfg.Socket.URL
	}
	if target == "" {
		// Derive ws://host/socket from the API base.
		target = strings.Replace(apiBase(a.cfg), "http", "ws", 1) + "/socket"
	}
	return socket.Dial(ctx, target, token, a.log)
}

func (a *app) user() (domain.User, error) {
	return a.store.User()
}
