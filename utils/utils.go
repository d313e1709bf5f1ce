package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// LoadDotEnv returns a required environment variable and exits when it is unset.
func LoadDotEnv(varName string) string {
	envVar := os.Getenv(varName)
	if envVar == "" {
		log.Fatal().Msgf("Environment variable %s not set", varName)
	}
	return envVar
}

// AudioExtension returns the extension of an uploaded file name, ".webm" when it has none.
func AudioExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" || ext == "." {
		return ".webm"
	}
	return ext
}
