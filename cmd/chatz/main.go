package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chatz/config"
	"chatz/internal/channel"
	chrepo "chatz/internal/channel/repository"
	chusecase "chatz/internal/channel/usecase"
	"chatz/internal/encrypted"
	encrepo "chatz/internal/encrypted/repository"
	encusecase "chatz/internal/encrypted/usecase"
	"chatz/internal/message"
	msgrepo "chatz/internal/message/repository"
	msgusecase "chatz/internal/message/usecase"
	"chatz/internal/stats"
	"chatz/internal/storage/memory"
	"chatz/internal/storage/postgres"
	"chatz/internal/transport/httpapi"
	"chatz/internal/user"
	userrepo "chatz/internal/user/repository"
	userusecase "chatz/internal/user/usecase"
	"chatz/internal/ws"
	"chatz/pkg/keys"
	"chatz/pkg/logger"

	"github.com/uptrace/bun"
)

type repositories struct {
	users     user.UserRepository
	channels  channel.ChannelRepository
	messages  message.MessageRepository
	encrypted encrypted.EncryptedMessageRepository
	close     func() error
}

func main() {
	configName := flag.String("config", "config", "config file name under ./config, without extension")
	flag.Parse()

	cfg, err := loadConfig(*configName)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	appLogger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *cfg, *appLogger); err != nil {
		appLogger.Error("chatz stopped with error", "error", err)
		os.Exit(1)
	}
}

func loadConfig(name string) (*config.Config, error) {
	v, err := config.LoadConfig(name)
	if err != nil {
		return nil, err
	}
	return config.ParseConfig(v)
}

func run(ctx context.Context, cfg config.Config, appLogger logger.Logger) error {
	repos, err := openRepositories(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer repos.close()

	master, err := keys.ParseMasterKey(cfg.Encryption.MasterKey)
	if err != nil {
		return err
	}
	if cfg.Encryption.MasterKey == "" {
		appLogger.Warn("no encryption.masterKey configured, using an ephemeral key")
	}
	keyring, err := keys.NewKeyring(master)
	if err != nil {
		return err
	}

	hub := ws.NewHub(repos.channels, appLogger.With("component", "ws"))

	users := userusecase.NewUserUsecase(repos.users, repos.channels, appLogger, cfg)
	channels := chusecase.NewChannelUsecase(repos.channels, repos.users, appLogger, cfg)
	messages := msgusecase.NewMessageUsecase(repos.messages, repos.users, hub, appLogger, cfg)
	encryptedMessages := encusecase.NewEncryptedMessageUsecase(repos.encrypted, repos.channels, repos.users, keyring, hub, appLogger, cfg)
	statsUsecase := stats.NewStatsUsecase(repos.users, repos.messages, repos.channels, repos.encrypted, appLogger)

	if _, err := channels.FixGeneralChannel(ctx); err != nil {
		return err
	}

	go hub.Run(ctx)
	go encusecase.NewSweeper(encryptedMessages, cfg.Encryption.CleanupInterval, appLogger.With("component", "sweeper")).Run(ctx)

	handler := httpapi.NewHandler(users, channels, messages, encryptedMessages, statsUsecase, hub, appLogger)
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler.Router(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info("chatz listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	appLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openRepositories picks postgres when a DSN is configured and the
// in-memory store otherwise.
func openRepositories(ctx context.Context, cfg config.Config, appLogger logger.Logger) (*repositories, error) {
	if cfg.Bun.DSN == "" {
		appLogger.Info("using in-memory store")
		store := memory.New()
		return &repositories{
			users:     store,
			channels:  store,
			messages:  store,
			encrypted: store,
			close:     func() error { return nil },
		}, nil
	}

	db, err := postgres.Open(ctx, cfg.Bun.DSN)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	appLogger.Info("using postgres store")
	return bunRepositories(db, appLogger), nil
}

func bunRepositories(db *bun.DB, appLogger logger.Logger) *repositories {
	return &repositories{
		users:     userrepo.NewUserRepository(db, appLogger),
		channels:  chrepo.NewChannelRepository(db, appLogger),
		messages:  msgrepo.NewMessageRepository(db, appLogger),
		encrypted: encrepo.NewEncryptedMessageRepository(db, appLogger),
		close:     db.Close,
	}
}
