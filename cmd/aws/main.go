package main

import (
	"context"

	"echo-audit-api/pkg/orm"
	"echo-audit-api/utils"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// aws checks that the store credentials can be read from Secrets Manager.
func main() {
	utils.SetupLogger(false, false)
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}
	secretId := utils.LoadDotEnv("AWS_SECRET_ID")
	region := utils.LoadDotEnv("AWS_REGION")
	secret, err := orm.GetAwsSecret(context.Background(), secretId, region)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get AWS secret")
		return
	}
	log.Info().Str("username", secret.Username).Bool("hasPassword", secret.Password != "").Msg("Successfully retrieved AWS secret")
}
