package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/sync/errgroup"

	"statbot/internal/command"
	"statbot/internal/config"
	"statbot/internal/controller"
	"statbot/internal/db"
	"statbot/internal/discord"
	httpserver "statbot/internal/http"
	"statbot/internal/reactionrole"
	"statbot/internal/repository"
	"statbot/internal/routes"
	"statbot/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, quit := context.WithCancel(ctx)
	defer quit()

	store, err := reactionrole.Open(reactionrole.NewFilePersister(cfg.ReactionRolesPath))
	if err != nil {
		log.Fatalf("load reaction roles: %v", err)
	}
	log.Printf("[INFO] loaded %d reaction-role messages from %s", store.Len(), cfg.ReactionRolesPath)

	var (
		repo   repository.ModerationRepository
		worker = service.NewDiscardWorker()
	)
	if cfg.ClickHouse.Enabled() {
		conn, err := db.NewConnection(ctx, cfg)
		if err != nil {
			log.Fatalf("connect db: %v", err)
		}
		defer conn.Close()

		if err := db.RunMigrations(ctx, conn); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		repo = repository.NewModerationRepository(conn)
		worker = service.NewBatchModerationWorker(repo, cfg.WorkerBufferSize, cfg.WorkerBatchSize, cfg.WorkerFlushEvery)
	}
	defer worker.Shutdown()

	client, err := discord.NewClient(cfg.DiscordToken)
	if err != nil {
		log.Fatalf("discord: %v", err)
	}

	reports := service.NewReportService(client, cfg.SkipFailedChannels, cfg.ReportTimeout)
	reactionRoles := service.NewReactionRoleService(client, store)
	monitor := service.NewAuditMonitor(client, worker, cfg.OwnerID, cfg.AuditPollInterval, cfg.AuditLogLimit)
	notifier := service.NewModerationNotifier(client, worker, cfg.OwnerID, cfg.JoinRole)

	router := command.NewRouter(reports, reactionRoles, client, cfg.OwnerID, cfg.StatsRole, quit)
	bot := discord.NewBot(client, router, reactionrole.NewReconciler(store, client), notifier)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return bot.Run(ctx) })
	g.Go(func() error { return monitor.Run(ctx) })

	if cfg.AdminToken != "" {
		server := httpserver.NewServer(cfg, routes.Controllers{
			Reports:       controller.NewReportController(reports),
			ReactionRoles: controller.NewReactionRoleController(reactionRoles),
			Moderation:    controller.NewModerationController(repo),
		})
		g.Go(func() error {
			log.Printf("[INFO] starting admin api on %s", cfg.HTTPPort)
			return server.Listen(cfg.HTTPPort)
		})
		g.Go(func() error {
			<-ctx.Done()
			return server.Shutdown()
		})
	} else {
		log.Printf("[INFO] ADMIN_TOKEN not set, admin api disabled")
	}

	if err := g.Wait(); err != nil {
		log.Printf("[ERROR] stopped: %v", err)
	}
	log.Printf("[INFO] bye")
}
