package main

import (
	"strings"

	"github.com/annalapradeBU/cafe-passport/config"
	"github.com/annalapradeBU/cafe-passport/db"
	"github.com/annalapradeBU/cafe-passport/handlers"
	"github.com/annalapradeBU/cafe-passport/logger"
	"github.com/annalapradeBU/cafe-passport/models"
	"github.com/annalapradeBU/cafe-passport/storage"

	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// A missing .env file is fine, the environment is used as is
	if err := godotenv.Load(); err == nil {
		if err = config.Load(); err != nil {
			panic(err)
		}
	}
	if err := logger.Init(config.LOG_LEVEL, zap.String("service", "cafe-passport")); err != nil {
		panic(err)
	}
	defer logger.Log.Sync() //nolint:errcheck

	db.Init()
	models.Init()
	storage.Init(db.Instance)
	handlers.Init()

	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	sessionStore := gormsessions.NewStore(db.Instance, true, []byte(config.SESSION_KEY))
	router := handlers.NewRouter(sessionStore)

	var err error
	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		logger.Log.Info("listening", zap.String("address", config.BIND_ADDRESS))
		err = router.Run(config.BIND_ADDRESS)
	}
	logger.Log.Fatal("server stopped", zap.Error(err))
}
