package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/namada-hub/block-hub/cache"
	"github.com/namada-hub/block-hub/config"
	blockdb "github.com/namada-hub/block-hub/db"
	"github.com/namada-hub/block-hub/external"
	"github.com/namada-hub/block-hub/logging"
	"github.com/namada-hub/block-hub/metrics"
	"github.com/namada-hub/block-hub/restapi/handlers"
	"github.com/namada-hub/block-hub/service"
	"github.com/namada-hub/block-hub/txtype"
	"github.com/namada-hub/block-hub/util"
)

func initFlags() {
	flag.String(config.FlagConfigPath, "", "config file path")
	flag.String(config.FlagDBPass, "", "block db password")
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	pflag.Parse()
	err := viper.BindPFlags(pflag.CommandLine)
	if err != nil {
		panic(err)
	}
}

func printUsage() {
	fmt.Print("usage: ./block-hub --config-path configFile\n")
}

func main() {
	initFlags()
	configFilePath := viper.GetString(config.FlagConfigPath)
	if configFilePath == "" {
		configFilePath = os.Getenv(config.EnvVarConfigFilePath)
		if configFilePath == "" {
			printUsage()
			return
		}
	}
	cfg := config.ParseConfigFromFile(configFilePath)
	if cfg == nil {
		panic("failed to get configuration")
	}
	logging.InitLogger(&cfg.LogConfig)

	password := viper.GetString(config.FlagDBPass)
	if password == "" {
		password = os.Getenv(config.EnvVarDBUserPass)
		if password == "" {
			password = cfg.DBConfig.Password
		}
	}
	db := config.InitDBWithConfig(&cfg.DBConfig, password)
	blockDao := blockdb.NewBlockSvcDB(db)

	checksums, err := util.LoadChecksums(cfg.ServerConfig.ChecksumsPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load checksums, err=%s", err.Error()))
	}

	epochCache, err := cache.NewLocalCache(cfg.CacheConfig.GetCacheSize())
	if err != nil {
		panic(fmt.Sprintf("failed to init cache, err=%s", err.Error()))
	}

	nodeClient := external.NewNodeClient(&cfg.NodeConfig)
	blockSvc := service.NewBlockService(blockDao, nodeClient, txtype.NewChecksumDecoder(), checksums, epochCache)

	if cfg.MetricsConfig.Enable {
		m := metrics.NewMetrics(cfg.MetricsConfig.ListenAddr)
		m.Start()
	}

	router := mux.NewRouter()
	handlers.NewBlockHandler(blockSvc).Register(router)

	logging.Logger.Infof("serving block API on %s", cfg.ServerConfig.ListenAddr)
	if err := http.ListenAndServe(cfg.ServerConfig.ListenAddr, router); err != nil {
		logging.Logger.Errorf("server stopped, err=%s", err.Error())
		panic(err)
	}
}
