package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/rental_desk/internal/api"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const passwordEnv = "RENTAL_PASSWORD"

// remoteOptions подключение к бэкенду для check и calendar.
// Пароль берётся только из окружения, чтобы не светиться в истории shell.
type remoteOptions struct {
	baseURL  string
	username string
	timezone string
	timeout  time.Duration
}

func addRemoteFlags(cmd *cobra.Command, opts *remoteOptions) {
	tz := os.Getenv("TIMEZONE")
	if tz == "" {
		tz = "UTC"
	}

	cmd.Flags().StringVar(&opts.baseURL, "api", os.Getenv("API_BASE_URL"), "backend base URL (default $API_BASE_URL)")
	cmd.Flags().StringVar(&opts.username, "username", os.Getenv("RENTAL_USERNAME"), "backend username (default $RENTAL_USERNAME)")
	cmd.Flags().StringVar(&opts.timezone, "tz", tz, "agency timezone used for \"today\"")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 15*time.Second, "backend request timeout")
}

func (o remoteOptions) location() (*time.Location, error) {
	loc, err := time.LoadLocation(o.timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", o.timezone, err)
	}
	return loc, nil
}

// connect логинится на бэкенде и возвращает клиент с cookie сессии
func (o remoteOptions) connect(ctx context.Context, logger *zap.Logger) (*api.Client, error) {
	if o.baseURL == "" {
		return nil, fmt.Errorf("backend URL is required: set API_BASE_URL or --api")
	}

	client, err := api.NewClient(o.baseURL, o.timeout, logger)
	if err != nil {
		return nil, err
	}

	user, err := client.Login(ctx, model.Credentials{
		Username: o.username,
		Password: os.Getenv(passwordEnv),
	})
	if err != nil {
		return nil, fmt.Errorf("login as %q: %w", o.username, err)
	}

	logger.Debug("Logged in", zap.String("username", user.Username), zap.String("role", string(user.Role)))
	return client, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
