package main

import (
	"flag"
	"fmt"

	"github.com/golang/glog"
	"github.com/marphezis/prebid-adapters/adapters"
	"github.com/marphezis/prebid-adapters/config"
	"github.com/marphezis/prebid-adapters/exchange"
	"github.com/marphezis/prebid-adapters/logger"
	metricsConf "github.com/marphezis/prebid-adapters/metrics/config"
	"github.com/marphezis/prebid-adapters/openrtb_ext"
	"github.com/marphezis/prebid-adapters/router"
	"github.com/marphezis/prebid-adapters/server"
	"github.com/marphezis/prebid-adapters/static"
	"github.com/marphezis/prebid-adapters/storage"
	storageConf "github.com/marphezis/prebid-adapters/storage/config"
	"github.com/spf13/viper"
)

// Version and Rev identify the binary on /version.
// Set at build time using:
//
//	go build -ldflags "-X main.Version=1.2.0 -X main.Rev=`git rev-parse --short HEAD`"
var (
	Version string
	Rev     string
)

const configFileName = "mpa"

func main() {
	flag.Parse() // required for glog flags and testing package flags

	cfg, err := loadConfig()
	if err != nil {
		glog.Exitf("Configuration could not be loaded or did not pass validation: %v", err)
	}

	if err := serve(cfg); err != nil {
		glog.Exitf("marphezis adapters failed: %v", err)
	}
}

func loadConfig() (*config.Configuration, error) {
	v := viper.New()
	config.SetupViper(v, configFileName)
	return config.New(v)
}

type services struct {
	router *router.Router
	store  storage.Store
}

func build(cfg *config.Configuration) (*services, error) {
	store, err := storageConf.NewStore(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("storage: %v", err)
	}

	me := metricsConf.NewMetricsEngine(cfg, openrtb_ext.CoreBidderNames())

	infos, err := adapters.ParseBidderInfos(static.Files, static.BidderInfoDir, openrtb_ext.CoreBidderNames())
	if err != nil {
		storage.Close(store)
		return nil, err
	}
	validator, err := openrtb_ext.NewBidderParamsValidatorFS(static.Files, static.BidderParamsDir)
	if err != nil {
		storage.Close(store)
		return nil, err
	}

	registry, errs := exchange.BuildRegistry(cfg, infos, adapters.Dependencies{
		Config:    cfg,
		Validator: validator,
		Metrics:   me,
		Logger:    logger.Default(),
		Store:     store,
	})
	for _, err := range errs {
		glog.Errorf("bidder not registered: %v", err)
	}

	return &services{
		router: router.New(cfg, registry, validator, me, Version, Rev),
		store:  store,
	}, nil
}

func serve(cfg *config.Configuration) error {
	s, err := build(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := storage.Close(s.store); err != nil {
			glog.Errorf("Failed to close the storage: %v", err)
		}
	}()

	return server.Listen(cfg, router.NoCache{Handler: router.SupportCORS(s.router)}, s.router.Admin)
}
