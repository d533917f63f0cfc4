package main

import (
	"os"

	"github.com/yigit/alumnihub/internal/pkg/logger"
)

// @title AlumniHub API
// @version 1.0
// @description JSON API of the alumni association portal: registration and approval, directory, donations, job board, events and success stories.

// @contact.name API Support
// @contact.email support@alumnihub.local

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:1001
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization, prefixed with "Bearer "

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
