package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/caisse/cmd/category"
	"fjacquet/caisse/cmd/class"
	"fjacquet/caisse/cmd/comment"
	"fjacquet/caisse/cmd/course"
	"fjacquet/caisse/cmd/expense"
	"fjacquet/caisse/cmd/fee"
	"fjacquet/caisse/cmd/initcmd"
	"fjacquet/caisse/cmd/payment"
	"fjacquet/caisse/cmd/receipt"
	"fjacquet/caisse/cmd/report"
	"fjacquet/caisse/cmd/root"
	"fjacquet/caisse/cmd/user"
	"fjacquet/caisse/cmd/workexpense"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func init() {
	// Environment first, before anything logs.
	loadEnvSilently()
	configureLogLevel()

	root.Init()
	root.Cmd.AddCommand(
		initcmd.Cmd,
		class.Cmd,
		course.Cmd,
		category.Cmd,
		payment.Cmd,
		receipt.Cmd,
		expense.Cmd,
		workexpense.Cmd,
		fee.Cmd,
		comment.Cmd,
		user.Cmd,
		report.Cmd,
	)
}

// loadEnvSilently loads .env from the working directory or its parent.
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

// configureLogLevel sets the global logrus level from CAISSE_LOG_LEVEL so
// loggers created before the configuration is read agree with it.
func configureLogLevel() {
	level, err := logrus.ParseLevel(strings.ToLower(os.Getenv("CAISSE_LOG_LEVEL")))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
