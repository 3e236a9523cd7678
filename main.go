package main

import (
	"log"
	"time"

	"formbuilder-app/config"
	"formbuilder-app/database"
	routes "formbuilder-app/internal/app/http"
	"formbuilder-app/internal/domain/billing"
	"formbuilder-app/internal/domain/quota"
	"formbuilder-app/internal/infra/currency"
	"formbuilder-app/internal/infra/email"
	razorpayinfra "formbuilder-app/internal/infra/razorpay"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()

	db, err := database.Init(config.DB_URL)
	if err != nil {
		log.Fatal("❌ ", err)
	}

	gateway := razorpayinfra.New(config.RAZORPAY_KEY_ID, config.RAZORPAY_KEY_SECRET)
	rates := currency.New()
	mailer := email.NewMailer(config.RESEND_API_KEY, config.MAIL_FROM)

	payments := billing.NewService(db, gateway, rates, mailer, config.RAZORPAY_KEY_SECRET)
	guard := quota.NewGuard(db, payments.Ledger())

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Payments: payments,
		Guard:    guard,
		Mailer:   mailer,
	})

	r.Run(":" + config.PORT)
}
