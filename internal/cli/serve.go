package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"Chococu/internal/catalog"
	"Chococu/pkg/kit"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		log := kit.NewLogger(cfg.Service, cfg.Log.Level)
		defer func() { _ = log.Sync() }()

		store, closeStore, err := openStore(cmd.Context(), cfg, log)
		if err != nil {
			log.Error("store init failed", zap.Error(err))
			return err
		}
		defer closeStore()

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		s := &catalog.Server{
			Store:          store,
			Log:            log,
			ContactLimiter: kit.NewIPRateLimiter(cfg.Contact.RatePerMinute, cfg.Contact.Burst),
			Inquiries:      catalog.NewInquiryCounter(reg),
		}

		h := catalog.NewHandler(s, catalog.HTTPDeps{
			Log:            log,
			Service:        cfg.Service,
			Registry:       reg,
			MetricsEnabled: cfg.Metrics.Enabled,
			MetricsToken:   cfg.Metrics.Token,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			TrustProxy:     cfg.HTTP.TrustProxy,
		})

		return kit.RunHTTPServer(cfg.HTTP.Addr, h, log, kit.ServerOptions{
			ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
			ShutdownTimeout:   cfg.HTTP.ShutdownTimeout,
		})
	},
}
