package echoServer

import (
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authctrl "github.com/tienvum1/Rentzy--sub001/app/echoServer/controller/auth"
	bookingctrl "github.com/tienvum1/Rentzy--sub001/app/echoServer/controller/booking"
	paymentctrl "github.com/tienvum1/Rentzy--sub001/app/echoServer/controller/payment"
	walletctrl "github.com/tienvum1/Rentzy--sub001/app/echoServer/controller/wallet"
)

type C struct {
	Auth      *authctrl.Controller
	Booking   *bookingctrl.Controller
	Payment   *paymentctrl.Controller
	Wallet    *walletctrl.Controller
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)

	// Gateway callbacks authenticate by signature, not by JWT.
	pub.POST("/payments/momo/ipn", c.Payment.HandleIPN)
	pub.GET("/payments/momo/return", c.Payment.HandleReturn)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Auth
	auth := e.Group("/v1")
	auth.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(c.JWTSecret),

		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))

	// Bookings
	auth.POST("/bookings", c.Booking.Reserve)
	auth.GET("/bookings/my", c.Booking.My)
	auth.GET("/bookings/:id", c.Booking.Get)
	auth.GET("/bookings/:id/refund-preview", c.Booking.RefundPreview)
	auth.GET("/bookings/:id/transactions", c.Booking.Payments)
	auth.POST("/bookings/:id/cancel", c.Booking.Cancel)
	auth.POST("/bookings/:id/payments", c.Booking.InitiatePayment)
	auth.POST("/bookings/:id/accept", c.Booking.Accept)
	auth.POST("/bookings/:id/start", c.Booking.Start)
	auth.POST("/bookings/:id/complete", c.Booking.Complete)

	// Wallet
	auth.GET("/wallet", c.Wallet.Balance)
	auth.GET("/wallet/ledger", c.Wallet.Ledger)
	auth.POST("/wallet/topups", c.Wallet.Topup)
	auth.POST("/wallet/withdrawals", c.Wallet.RequestWithdrawal)
	auth.POST("/wallet/withdrawals/:id/review", c.Wallet.ReviewWithdrawal)
}
