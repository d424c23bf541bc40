package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/epic-events/crm-system/internal/cli"
	"github.com/epic-events/crm-system/internal/core/ports"
	"github.com/epic-events/crm-system/internal/core/service"
	"github.com/epic-events/crm-system/internal/infrastructure/config"
	"github.com/epic-events/crm-system/internal/infrastructure/crypt"
	mongodb "github.com/epic-events/crm-system/internal/infrastructure/db/mongo"
	redisdb "github.com/epic-events/crm-system/internal/infrastructure/db/redis"
	"github.com/epic-events/crm-system/internal/infrastructure/sessionfile"
	"github.com/epic-events/crm-system/pkg/logger"
)

func main() {
	createAdmin := flag.Bool("create-admin", false, "create the first management user and exit")
	flag.Parse()

	if err := run(*createAdmin); err != nil {
		fmt.Fprintf(os.Stderr, "crm: %v\n", err)
		os.Exit(1)
	}
}

func run(createAdmin bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
		Output: logFile,
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())

	// The throttle is optional: with no Redis address, logins are simply
	// not rate limited.
	var throttle ports.LoginThrottle
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		throttle = redisdb.NewLoginThrottle(rdb)
	}

	users := mongodb.NewUserRepository(db)
	clients := mongodb.NewClientRepository(db)
	contracts := mongodb.NewContractRepository(db)
	events := mongodb.NewEventRepository(db)
	uow := mongodb.NewTxRunner(client)
	hasher := crypt.NewBcryptHasher()
	sessions := sessionfile.New(cfg.SessionFile)

	authSvc := service.NewAuthService(users, hasher, throttle, sessions, cfg.JWTSecret, log)
	userSvc := service.NewUserService(users, clients, contracts, events, hasher, uow, log)
	clientSvc := service.NewClientService(clients, users, uow, log)
	contractSvc := service.NewContractService(contracts, clients, users, uow, log)
	eventSvc := service.NewEventService(events, clients, users, uow, log)

	if createAdmin {
		return bootstrapAdmin(ctx, userSvc)
	}

	app := cli.NewApp(authSvc, userSvc, clientSvc, contractSvc, eventSvc, os.Stdin, os.Stdout, log)
	return app.Run(ctx)
}

// bootstrapAdmin creates the first management user from environment
// variables so the system can be seeded before anyone can log in.
func bootstrapAdmin(ctx context.Context, users *service.UserService) error {
	in := ports.CreateUserInput{
		Username:  os.Getenv("CRM_ADMIN_USERNAME"),
		FirstName: os.Getenv("CRM_ADMIN_FIRST_NAME"),
		LastName:  os.Getenv("CRM_ADMIN_LAST_NAME"),
		Email:     os.Getenv("CRM_ADMIN_EMAIL"),
		Password:  os.Getenv("CRM_ADMIN_PASSWORD"),
	}
	user, err := users.CreateBootstrap(ctx, in)
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	fmt.Printf("Management user %q created with id %d.\n", user.Username, user.ID)
	return nil
}
