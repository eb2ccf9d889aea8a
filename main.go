package main

import (
	"log"
	"os"
	"time"

	"infracheck/config"
	"infracheck/controllers"
	dbpkg "infracheck/db"
	"infracheck/router"
	"infracheck/tools"
	"infracheck/workers"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Get(getenv("CONFIG_PATH", "config.json"))

	dbpkg.SetConfigurations(cfg)
	controllers.SetConfigurations(cfg)

	if cfg.Smtp.Host != "" {
		controllers.SetMailer(tools.SMTPMailer{
			Host: cfg.Smtp.Host,
			Port: cfg.Smtp.Port,
			User: cfg.Smtp.User,
			Pass: cfg.Smtp.Pass,
			From: cfg.Smtp.From,
		})
	} else {
		log.Printf("smtp não configurado: códigos de recuperação só vão pro log (dev)")
	}

	conn, err := dbpkg.Connect()
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	workers.StartExpirySweeper(conn, time.Duration(cfg.Security.SweepIntervalMins)*time.Minute)

	r := gin.New()
	r.Use(dbpkg.SetDBtoContext(conn))
	router.Initialize(r, cfg)

	log.Printf("InfraCheck auth API listening on :%s", cfg.ApiPort)
	log.Fatal(r.Run(":" + cfg.ApiPort))
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
