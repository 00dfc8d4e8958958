// entry point to app :)
package main

import (
	"github.com/ahmedsomaa/picloom/config"
	"github.com/ahmedsomaa/picloom/internal/appServer"
	"github.com/ahmedsomaa/picloom/internal/pkg/logger"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	viperInstance, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Cannot load config. Error: {%s}", err.Error())
	}

	cfg, err := config.ParseConfig(viperInstance)
	if err != nil {
		logrus.Fatalf("Cannot parse config. Error: {%s}", err.Error())
	}

	closer, err := logger.Setup(cfg.Log)
	if err != nil {
		logrus.Fatalf("Cannot set up logging. Error: {%s}", err.Error())
	}
	defer closer.Close()

	appServer.NewServer(cfg)
}
