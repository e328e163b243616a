package main

import (
	"errors"
	"eventgo/src/config"
	"eventgo/src/db"
	"eventgo/src/lib"
	"eventgo/src/middlewares"
	"eventgo/src/models"
	"eventgo/src/utils"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
)

const (
	apiPrefix string = "/api/v1"
)

var eventDateTimeValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	datetime, err := time.Parse(config.TIME_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	if ok {
		today := time.Now()
		if today.After(datetime) {
			return false
		}
	}
	return true
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(middlewares.SecureHeaders)
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	return router
}

func maintenanceModeMiddleware(g *gin.Engine) *gin.Engine {
	g.Use(func(ctx *gin.Context) {
		mm := os.Getenv("MAINTENANCE_MODE")
		atoi, err := strconv.ParseBool(mm)
		if err != nil || atoi {
			err := errors.New("server is under maintenance")
			log.Println(err.Error())
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, err.Error())
			return
		}
	})
	return g
}

func apiv1Group(g *gin.Engine) *gin.RouterGroup {
	apiv1 := g.Group(apiPrefix)
	return apiv1
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("bookabledate", eventDateTimeValidatorFunc)
	}
}

func adminHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/admin/seed", middlewares.RequireAdmin, func(ctx *gin.Context) {
			if err := utils.SeedDatabase(); err != nil {
				log.Printf("Error seeding database: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}

func mountRoutes(router *gin.Engine) {
	public := apiv1Group(router)
	eventHandlers(public)

	authed := apiv1Group(router)
	authed.Use(middlewares.AuthMiddleware)
	eventAuthoringHandlers(authed)
	orderHandlers(authed)
	ticketCodeHandlers(authed)
	admissionHandlers(authed)
	adminHandlers(authed)
}

func migrate() {
	dbi := db.GetDb()
	if err := dbi.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.TicketType{},
		&models.Order{},
		&models.OrderItem{},
		&models.Ticket{},
	); err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}
}

func main() {
	registerValidators()
	migrate()

	sched, err := lib.GetScheduler()
	if err != nil {
		log.Fatalf("Error initializing Scheduler: %s\n", err.Error())
	}
	sched.Start()
	defer sched.Shutdown()

	router := setupRouter()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{os.Getenv("APP_HOST")},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}))
	maintenanceModeMiddleware(router)
	mountRoutes(router)

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Error starting server: %s\n", err.Error())
	}
}
