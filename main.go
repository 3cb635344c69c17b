package main

import (
	"consegne/config"
	"consegne/controller"
	"consegne/dao"
	"consegne/log"
	"consegne/observability"
	"consegne/push"
	"consegne/service"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// @title Consegne coordination HTTP API
// @description Delivery/logistics coordination backend

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Error.Println(err)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	//create db client
	dbClient, err := dao.GetClient(cfg.DBPath)
	if err != nil {
		log.Fatal(err)
	}

	shipmentDao := dao.NewShipmentDao(dbClient)
	messageDao := dao.NewMessageDao(dbClient)
	subscriptionDao := dao.NewSubscriptionDao(dbClient)
	userDao := dao.NewUserDao(dbClient)
	sessionDao := dao.NewSessionDao(dbClient)

	dispatcher := push.NewDispatcher(subscriptionDao,
		cfg.VAPIDPublicKey,
		cfg.VAPIDPrivateKey,
		cfg.VAPIDSubscriber,
		cfg.PushTTL,
		cfg.PushPerSec)
	if !dispatcher.Configured() {
		log.Warn.Println("VAPID keys missing, push delivery is disabled")
	}

	authService := service.NewAuthService(userDao, sessionDao)
	if err := authService.EnsureAdmin(cfg.AdminMail, cfg.AdminName, cfg.AdminPassword); err != nil {
		log.Fatal(err)
	}
	shipmentService := service.NewShipmentService(shipmentDao, messageDao, userDao, dispatcher)
	messageService := service.NewMessageService(messageDao, cfg.MsgMaxLen)
	pushService := service.NewPushService(subscriptionDao, dispatcher)

	observability.Register(prometheus.DefaultRegisterer)

	//attach http handlers
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(controller.MetricsMiddleware())
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	bindRoutes(e, authService, shipmentService, messageService, pushService)

	//start http server
	log.Fatal(e.Start(":" + cfg.HTTPPort))
}

func bindRoutes(e *echo.Echo, auth service.AuthService, shipments service.ShipmentService, messages service.MessageService, pushSrv service.PushService) {
	//public: login plus the pre-login part of the subscription lifecycle
	e.POST("/api/login", controller.GetLoginFunc(auth))
	e.POST("/api/push/subscribe", controller.GetSubscribeFunc(pushSrv))
	e.GET("/api/push/public-key", controller.GetPublicKeyFunc(pushSrv))
	e.POST("/api/push/log-subscribe", controller.GetLogSubscribeFunc(pushSrv))

	api := e.Group("/api", controller.AuthMiddleware(auth))

	api.POST("/logout", controller.GetLogoutFunc(auth))

	api.GET("/shipments", controller.GetListShipmentsFunc(shipments))
	api.POST("/shipments", controller.GetCreateShipmentFunc(shipments))
	api.GET("/shipments/:id", controller.GetShipmentFunc(shipments))
	api.PUT("/shipments/:id", controller.GetUpdateShipmentFunc(shipments))
	api.DELETE("/shipments/:id", controller.GetDeleteShipmentFunc(shipments))
	api.POST("/shipments/:id/status", controller.GetChangeStatusFunc(shipments))
	api.POST("/shipments/:id/driver", controller.GetAssignDriverFunc(shipments))

	api.GET("/messages", controller.GetListMessagesFunc(messages))
	api.POST("/messages", controller.GetPostMessageFunc(messages))

	api.GET("/users", controller.GetListUsersFunc(auth))
	api.POST("/users", controller.GetCreateUserFunc(auth))
	api.PUT("/users/:id", controller.GetUpdateUserFunc(auth))
	api.DELETE("/users/:id", controller.GetDeleteUserFunc(auth))

	api.POST("/push/associate", controller.GetAssociateFunc(pushSrv))
	api.GET("/push/list", controller.GetListSubscriptionsFunc(pushSrv))
	api.POST("/push/notify-test", controller.GetNotifyTestFunc(pushSrv))
	api.POST("/push/send-to-user", controller.GetSendToUserFunc(pushSrv))
}
