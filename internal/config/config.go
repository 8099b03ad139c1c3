package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port           string
	ListingsAPIURL string
	ListingsAPIKey string
	CacheFreshness time.Duration
	UploadDir      string
	TokenSecret    string
	HashPasswords  bool
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	apiURL := os.Getenv("LISTINGS_API_URL")
	if apiURL == "" {
		apiURL = "https://realtor.p.rapidapi.com"
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	return Config{
		Port:           port,
		ListingsAPIURL: apiURL,
		ListingsAPIKey: firstNonEmpty(os.Getenv("HOMEFLOW_API_KEY"), os.Getenv("RAPIDAPI_KEY")),
		CacheFreshness: time.Duration(readInt("LISTINGS_CACHE_TTL_SEC", 600)) * time.Second,
		UploadDir:      uploadDir,
		TokenSecret:    os.Getenv("AUTH_TOKEN_SECRET"),
		HashPasswords:  os.Getenv("AUTH_HASH_PASSWORDS") == "true",
	}
}

func readInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
