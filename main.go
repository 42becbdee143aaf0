// Package main vehicle rental API.
//
// @title           Rentzy API
// @version         1.0
// @description     Vehicle rental marketplace: bookings, payments, wallet.
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/tienvum1/Rentzy--sub001/app/echoServer"
	authctrl "github.com/tienvum1/Rentzy--sub001/app/echoServer/controller/auth"
	bookingctrl "github.com/tienvum1/Rentzy--sub001/app/echoServer/controller/booking"
	paymentctrl "github.com/tienvum1/Rentzy--sub001/app/echoServer/controller/payment"
	walletctrl "github.com/tienvum1/Rentzy--sub001/app/echoServer/controller/wallet"
	"github.com/tienvum1/Rentzy--sub001/app/echoServer/validation"
	"github.com/tienvum1/Rentzy--sub001/config"
	bookingrepo "github.com/tienvum1/Rentzy--sub001/repository/booking"
	momorepo "github.com/tienvum1/Rentzy--sub001/repository/momo"
	txrepo "github.com/tienvum1/Rentzy--sub001/repository/transaction"
	userrepo "github.com/tienvum1/Rentzy--sub001/repository/user"
	vehiclerepo "github.com/tienvum1/Rentzy--sub001/repository/vehicle"
	walletrepo "github.com/tienvum1/Rentzy--sub001/repository/wallet"
	authsvc "github.com/tienvum1/Rentzy--sub001/service/auth"
	bookingsvc "github.com/tienvum1/Rentzy--sub001/service/booking"
	paymentsvc "github.com/tienvum1/Rentzy--sub001/service/payment"
	walletsvc "github.com/tienvum1/Rentzy--sub001/service/wallet"
	"github.com/tienvum1/Rentzy--sub001/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	ur := userrepo.New(db)
	vr := vehiclerepo.New(db)
	br := bookingrepo.New(db)
	tr := txrepo.New(db)
	wr := walletrepo.New(db)
	mr := momorepo.NewHTTP(cfg.Momo)

	// services
	as := authsvc.New(ur, cfg.JWTSecret)
	bs := bookingsvc.New(db, br, vr, tr, wr)
	ws := walletsvc.New(db, wr, tr, mr)
	ps := paymentsvc.New(db, br, tr, wr, mr)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	bookingC := &bookingctrl.Controller{Svc: bs, PaySvc: ps, V: v, Log: log}
	walletC := &walletctrl.Controller{Svc: ws, V: v, Log: log}
	paymentC := &paymentctrl.Controller{Svc: ps, Log: log}

	// optional sweep; the lazy expiry check keeps things correct without it
	cleaner := bookingsvc.NewCleaner(br)
	go func() {
		t := time.NewTicker(time.Minute)
		defer t.Stop()
		for range t.C {
			if n, err := cleaner.ReleaseExpired(ctx); err != nil {
				log.Error("expiry sweep failed", "err", err)
			} else if n > 0 {
				log.Info("expired pending bookings released", "count", n)
			}
		}
	}()

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:    authC,
		Booking: bookingC,
		Payment: paymentC,
		Wallet:  walletC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	slog.Info("starting server", "chosen_port", port)

	e.Logger.Fatal(e.Start(":" + port))
}
