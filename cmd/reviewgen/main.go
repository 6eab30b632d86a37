package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aikomi/reviewgen/ai/llm"
	"github.com/aikomi/reviewgen/catalog"
	"github.com/aikomi/reviewgen/internal/profile"
	"github.com/aikomi/reviewgen/internal/version"
	"github.com/aikomi/reviewgen/metrics"
	"github.com/aikomi/reviewgen/review"
	"github.com/aikomi/reviewgen/server"
	apiv1 "github.com/aikomi/reviewgen/server/router/api/v1"
	"github.com/aikomi/reviewgen/usage"
)

var rootCmd = &cobra.Command{
	Use:   "reviewgen",
	Short: `Tag-based review generation service. Patrons pick experience tags; reviewgen writes an honest review constrained to them.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		// Try to load .env from the current directory (ignore if absent).
		_ = godotenv.Load()
		return nil
	},
	Run: func(_ *cobra.Command, _ []string) {
		instanceProfile := &profile.Profile{
			Mode:        viper.GetString("mode"),
			Addr:        viper.GetString("addr"),
			Port:        viper.GetInt("port"),
			InstanceURL: viper.GetString("instance-url"),
			Version:     version.GetCurrentVersion(viper.GetString("mode")),
		}
		instanceProfile.FromEnv()
		if err := instanceProfile.Validate(); err != nil {
			panic(err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		s, err := newServer(ctx, instanceProfile)
		if err != nil {
			slog.Error("failed to create server", "error", err)
			return
		}

		c := make(chan os.Signal, 1)
		// Trigger graceful shutdown on SIGINT or SIGTERM. The default signal
		// sent by `kill` is SIGTERM, which most process managers use to
		// request shutdown.
		signal.Notify(c, terminationSignals...)

		if err := s.Start(ctx); err != nil {
			slog.Error("failed to start server", "error", err)
			return
		}

		printGreetings(instanceProfile)

		go func() {
			<-c
			s.Shutdown(ctx)
			cancel()
		}()

		<-ctx.Done()
	},
}

// newServer assembles the generation pipeline and the HTTP surface.
func newServer(ctx context.Context, instanceProfile *profile.Profile) (*server.Server, error) {
	exporter := metrics.NewExporter(metrics.DefaultConfig())

	catalogService := catalog.NewService(catalog.Config{
		SpreadsheetID: instanceProfile.SpreadsheetID,
		StoresGID:     instanceProfile.StoresSheetGID,
		TagsGID:       instanceProfile.TagsSheetGID,
		TTL:           time.Duration(instanceProfile.CatalogTTL) * time.Second,
	})
	if !catalogService.Enabled() {
		slog.Warn("spreadsheet source not configured, store catalog will be empty")
	}

	var provider review.CompletionProvider
	if instanceProfile.IsAIEnabled() {
		var err error
		provider, err = llm.NewService(&llm.Config{
			Provider: instanceProfile.LLMProvider,
			Model:    instanceProfile.LLMModel,
			APIKey:   instanceProfile.LLMAPIKey,
			BaseURL:  instanceProfile.LLMBaseURL,
			Timeout:  instanceProfile.LLMTimeout,
		})
		if err != nil {
			slog.Warn("failed to initialize completion service, generation will be disabled", "error", err)
		} else {
			slog.Info("completion service initialized",
				"provider", instanceProfile.LLMProvider,
				"model", instanceProfile.LLMModel,
			)
		}
	} else {
		slog.Warn("LLM API key not configured, generation will be disabled")
	}

	var sink review.UsageSink
	if webhook := usage.NewWebhook(usage.Config{
		URL:     instanceProfile.UsageWebhookURL,
		Timeout: time.Duration(instanceProfile.UsageTimeout) * time.Second,
	}); webhook != nil {
		sink = webhook.OnFailure(exporter.RecordSinkFailure)
		slog.Info("usage webhook sink enabled")
	} else {
		slog.Info("usage webhook not configured, usage accounting disabled")
	}

	generator := review.NewGenerator(provider, sink,
		review.WithTokenMultiplier(instanceProfile.TokenMultiplier),
		review.WithCostPerKTokens(instanceProfile.CostPerKTokens),
	)

	api := apiv1.NewAPIV1Service(instanceProfile, catalogService, generator, exporter)
	return server.NewServer(ctx, instanceProfile, api)
}

func printGreetings(p *profile.Profile) {
	fmt.Printf("reviewgen %s started\n", p.Version)
	fmt.Printf("mode: %s, listening on %s:%d\n", p.Mode, p.Addr, p.Port)
	if p.InstanceURL != "" {
		fmt.Printf("instance url: %s\n", p.InstanceURL)
	}
}

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("port", 28091)

	rootCmd.PersistentFlags().String("mode", "dev", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 28091, "port of server")
	rootCmd.PersistentFlags().String("instance-url", "", "the url of your reviewgen instance")

	if err := viper.BindPFlag("mode", rootCmd.PersistentFlags().Lookup("mode")); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag("addr", rootCmd.PersistentFlags().Lookup("addr")); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port")); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag("instance-url", rootCmd.PersistentFlags().Lookup("instance-url")); err != nil {
		panic(err)
	}

	viper.SetEnvPrefix("reviewgen")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
