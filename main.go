package main

import (
	"context"
	"fmt"

	"PMeet/global"
	"PMeet/logger"
	mid "PMeet/middleware"
	midsec "PMeet/middleware/security"
	"PMeet/module/user"
	"PMeet/service/mgo"
	"PMeet/service/signal"
	"PMeet/service/signal/handlers"
	"PMeet/service/storage"
	redisx "PMeet/service/storage/redis"
	jwtlib "PMeet/tools/security"

	"github.com/gin-gonic/gin"
)

func main() {
	conf := global.LoadConfig()

	// Mongo backs the user surface only; the relay runs entirely in memory.
	if err := mgo.Connect(context.Background(), mgo.Config{
		URI:      conf.MongoURI,
		Database: conf.MongoDB,
	}); err != nil {
		logger.Log.Fatal(fmt.Sprintf("mongo connect failed: %v", err))
	}

	// Presence is optional; without Redis the relay is still fully functional.
	var presence storage.Presence = storage.NopPresence{}
	if conf.RedisAddr != "" {
		if err := redisx.Init(redisx.Config{
			Addr:     conf.RedisAddr,
			Password: conf.RedisPassword,
			DB:       conf.RedisDB,
		}); err != nil {
			logger.Warnf("redis unavailable, presence disabled: %v", err)
		} else {
			presence = storage.NewRedisPresence(conf.NodeID)
		}
	}

	jwtOpts := jwtlib.DefaultOptions([]byte(conf.JWTSecret))
	jwtOpts.TTL = conf.JWTTTL()
	mid.ConfigAuth(midsec.DefaultOptions(jwtOpts))

	rooms := signal.NewRoomTable()
	connMgr := signal.NewConnManager(conf.NodeID)
	disp := signal.NewDispatcher()
	handlers.RegisterAll(disp)

	srv := signal.NewServer(signal.ServerConf{
		AllowedOrigin:   conf.FrontendURL,
		JoinNotifyDelay: conf.JoinNotifyDelay(),
		Presence:        presence,
	}, connMgr, rooms, disp)

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.String(200, "Welcome to Backend Homepage")
	})
	r.GET("/ws", srv.HandleWS)
	mid.GET(r, "/health", srv.HandleHealth, mid.RouteOpt{})
	mid.POST(r, "/signup", user.HandlerSignup, mid.RouteOpt{IsAuth: false})
	mid.POST(r, "/login", user.HandlerLogin, mid.RouteOpt{IsAuth: false})
	mid.POST(r, "/check", user.HandlerCheck, mid.RouteOpt{IsAuth: true})

	addr := fmt.Sprintf(":%d", conf.Port)
	logger.Infof("[HTTP] listening on %s node=%s", addr, conf.NodeID)
	if err := r.Run(addr); err != nil {
		logger.Log.Fatal(fmt.Sprintf("http server failed: %v", err))
	}
}
