package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/asalkeld/standupbot/bot"
	"github.com/asalkeld/standupbot/checkin"
)

const (
	header = "     _                  _             _           _\n" +
		" ___| |_ __ _ _ __   __| |_   _ _ __ | |__   ___ | |_\n" +
		"/ __| __/ _` | '_ \\ / _` | | | | '_ \\| '_ \\ / _ \\| __|\n" +
		"\\__ \\ || (_| | | | | (_| | |_| | |_) | |_) | (_) | |_\n" +
		"|___/\\__\\__,_|_| |_|\\__,_|\\__,_| .__/|_.__/ \\___/ \\__|\n" +
		"                               |_|"
	Version = "1.0.0"
)

func main() {
	fmt.Println(header)
	fmt.Println("Version", Version)
	fmt.Println("")

	godotenv.Load()

	logger := logrus.New()

	token := os.Getenv("SLACK_BOT_TOKEN")
	if token == "" {
		logger.Fatalln("SLACK_BOT_TOKEN must be set")
	}

	dbPath := os.Getenv("STANDUPBOT_DB")
	if dbPath == "" {
		dbPath = "standupbot.db"
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		logger.WithError(err).Fatalln("cannot open configuration database")
	}

	store, err := checkin.NewStore(db)
	if err != nil {
		logger.WithError(err).Fatalln("cannot initialize configuration store")
	}

	slackAPIClient := slack.New(token)

	b := bot.New(slackAPIClient, logger, store, bot.Options{
		Name:           os.Getenv("SLACK_BOT_NAME"),
		CommandPrefix:  os.Getenv("COMMAND_PREFIX"),
		IssueBaseURL:   os.Getenv("ISSUE_BASE_URL"),
		FallbackColor:  os.Getenv("ANSWER_FALLBACK_HEX_COLOR"),
		SessionTimeout: sessionTimeout(),
	})

	scheduler := checkin.NewScheduler(store, logger, b.StartCheckin)
	scheduler.ForceStart = os.Getenv("FORCE_START") != ""

	go scheduler.Run(context.Background())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	http.HandleFunc("/events", b.EventHandler)

	logger.WithField("port", port).Info("standupbot listening")
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		logger.WithError(err).Fatalln("server stopped")
	}
}

func sessionTimeout() time.Duration {
	minutes, err := strconv.Atoi(os.Getenv("SESSION_TIMEOUT_MINUTES"))
	if err != nil || minutes <= 0 {
		return 0
	}
	return time.Duration(minutes) * time.Minute
}
