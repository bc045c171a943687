package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	pkg "git.solsynth.dev/hypernet/announcements/pkg/internal"
	"git.solsynth.dev/hypernet/announcements/pkg/internal/cache"
	"git.solsynth.dev/hypernet/announcements/pkg/internal/database"
	"git.solsynth.dev/hypernet/announcements/pkg/internal/grpc"
	"git.solsynth.dev/hypernet/announcements/pkg/internal/http"
	"git.solsynth.dev/hypernet/announcements/pkg/internal/http/admin"
	"git.solsynth.dev/hypernet/announcements/pkg/internal/http/api"
	"git.solsynth.dev/hypernet/announcements/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/announcements/pkg/internal/services"
	"github.com/fatih/color"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Booting screen
	fmt.Println(color.YellowString("    _                                                              _\n   / \\   _ __  _ __   ___  _   _ _ __   ___ ___ _ __ ___   ___ _ __ | |_ ___\n  / _ \\ | '_ \\| '_ \\ / _ \\| | | | '_ \\ / __/ _ \\ '_ ` _ \\ / _ \\ '_ \\| __/ __|\n / ___ \\| | | | | | | (_) | |_| | | | | (_|  __/ | | | | |  __/ | | | |_\\__ \\\n/_/   \\_\\_| |_|_| |_|\\___/ \\__,_|_| |_|\\___\\___|_| |_| |_|\\___|_| |_|\\__|___/"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiYellow).Add(color.Bold).Sprintf("Hypernet.Announcements"), pkg.AppVersion)
	fmt.Printf("The announcement subscription service in Hypernet\n")
	color.HiBlack("=====================================================\n")

	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")

	viper.SetDefault("bind", "0.0.0.0:8445")
	viper.SetDefault("grpc_bind", "0.0.0.0:7445")
	viper.SetDefault("database.driver", "postgres")
	viper.SetDefault("security.remote_user_header", exts.DefaultRemoteUserHeader)
	viper.SetDefault("security.instance_header", exts.DefaultInstanceHeader)
	viper.SetDefault("views.display_url", "/announcements")
	viper.SetDefault("views.mobile_suffix", services.DefaultMobileViewSuffix)
	viper.SetDefault("views.mobile_agents", services.DefaultMobileAgents)

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	if viper.GetBool("debug.enabled") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Connect to database
	db, err := database.NewGorm(database.Config{
		Driver: viper.GetString("database.driver"),
		Dsn:    viper.GetString("database.dsn"),
		Prefix: viper.GetString("database.prefix"),
		Debug:  viper.GetBool("debug.database"),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(db); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}

	// Initialize cache
	store, err := cache.NewStore()
	if err != nil {
		log.Fatal().Err(err).Msg("An error occurred when initializing cache.")
	}

	// Assemble services
	views, err := services.NewViewNameSelector(
		viper.GetStringSlice("views.mobile_agents"),
		viper.GetString("views.mobile_suffix"),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("An error occurred when loading view settings.")
	}
	announcements := services.NewAnnouncementService(db, cache.NewMarshaler(store))
	subscriptions := services.NewSubscriptionService(db)
	editor := services.NewPreferencesEditor(subscriptions, announcements, views)

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	quartz.AddFunc("@every 60m", func() { services.DoAutoDatabaseCleanup(db) })
	quartz.Start()

	// Server
	server := http.NewServer(
		http.Config{
			Bind:        viper.GetString("bind"),
			PrintRoutes: viper.GetBool("debug.print_routes"),
			Identity: exts.IdentityConfig{
				RemoteUserHeader: viper.GetString("security.remote_user_header"),
				InstanceHeader:   viper.GetString("security.instance_header"),
			},
		},
		&api.Controllers{
			Editor:        editor,
			Preferences:   services.NewPreferenceProvider(db),
			Announcements: announcements,
			DisplayURL:    viper.GetString("views.display_url"),
		},
		&admin.Controllers{
			Announcements: announcements,
			Accounts:      services.NewAccountService(db),
			Admins:        viper.GetStringSlice("security.admins"),
		},
	)
	go server.Listen()

	health := grpc.NewGrpc()
	go func() {
		if err := health.Listen(viper.GetString("grpc_bind")); err != nil {
			log.Fatal().Err(err).Msg("An error occurred when starting grpc server...")
		}
	}()
	health.SetServing(true)

	// Messages
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	health.SetServing(false)
	quartz.Stop()
	health.Stop()
	if err := server.Shutdown(); err != nil {
		log.Error().Err(err).Msg("An error occurred when shutting down server...")
	}
}
