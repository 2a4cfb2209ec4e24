package bootstrap

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/homeledger/homeledger/internal/client/api"
	"github.com/homeledger/homeledger/internal/config"
	"github.com/homeledger/homeledger/pkg/logger"
)

type Bootstrap struct {
	Log *slog.Logger
	API *api.Adapter
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewJSONHandler)

	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return bs, fmt.Errorf("invalid API base URL %q", cfg.APIBaseURL)
	}
	bs.API = api.NewAdapter(cfg.APIBaseURL, cfg.Session, &http.Client{
		Timeout: cfg.RequestTimeout,
	})

	return bs, nil
}

func (bs *Bootstrap) Close() {
	bs.API.CloseIdleConnections()
}
