// Command mockapi serves the Resource API from memory for local development.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"admintui/internal/mockapi"
	"admintui/internal/record"
	"admintui/internal/schema"
)

func main() {
	_ = godotenv.Load()

	var (
		addr     string
		username string
		password string
		key      string
		seed     bool
		open     bool
	)
	cmd := &cobra.Command{
		Use:          "mockapi",
		Short:        "Serve the admin Resource API from memory",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			opts := []mockapi.Option{mockapi.WithUser(username, password), mockapi.WithLogger(logger)}
			if key != "" {
				opts = append(opts, mockapi.WithSigningKey([]byte(key)))
			}
			if !open {
				opts = append(opts, mockapi.RequireAuth())
			}
			return serve(ctx, logger, addr, seed, opts...)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", envOr("MOCKAPI_ADDR", ":3031"), "listen address")
	cmd.Flags().StringVar(&username, "user", envOr("MOCKAPI_USER", "admin"), "login username")
	cmd.Flags().StringVar(&password, "password", envOr("MOCKAPI_PASSWORD", "admin"), "login password")
	cmd.Flags().StringVar(&key, "signing-key", os.Getenv("MOCKAPI_SIGNING_KEY"), "HMAC key for tokens (random when empty)")
	cmd.Flags().BoolVar(&seed, "seed", false, "start with demo records")
	cmd.Flags().BoolVar(&open, "open", false, "serve collections without a bearer token")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func serve(ctx context.Context, logger *zap.Logger, addr string, seed bool, opts ...mockapi.Option) error {
	reg := schema.Default()
	var collections []string
	for _, id := range reg.IDs() {
		d, _ := reg.Describe(id)
		collections = append(collections, strings.Trim(d.Endpoint, "/"))
	}

	s := mockapi.New(collections, opts...)
	if seed {
		seedDemo(s)
	}

	srv := &http.Server{Addr: addr, Handler: s.Routes(), ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logger.Info("mock api listening", zap.String("addr", addr), zap.Strings("collections", collections))

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdown)
}

func seedDemo(s *mockapi.Server) {
	for i := 1; i <= 3; i++ {
		dev := fmt.Sprintf("device-%02d", i)
		s.Seed("devices", record.New(record.Field{Name: "device_id", Value: dev}))
		s.Seed("accountCredentials", record.New(
			record.Field{Name: "email", Value: fmt.Sprintf("user%d@example.com", i)},
			record.Field{Name: "password", Value: "changeme"},
			record.Field{Name: "device_id", Value: dev},
		))
		s.Seed("coordinates", record.New(
			record.Field{Name: "device_id", Value: dev},
			record.Field{Name: "coordinate", Value: fmt.Sprintf("37.77%d,-122.41%d", i, i)},
		))
	}
	s.Seed("messages", record.New(record.Field{Name: "message", Value: "hello"}))
	s.Seed("profileAssociations", record.New(
		record.Field{Name: "email", Value: "user1@example.com"},
		record.Field{Name: "profile", Value: "default"},
	))
}
