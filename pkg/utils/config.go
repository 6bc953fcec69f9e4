package utils

import (
	"os"
	"strconv"
	"time"
)

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("CINELIST_JWT_SECRET")
	if secret == "" {
		// dev default (change for demo / production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("CINELIST_JWT_ISSUER")
	if issuer == "" {
		issuer = "cinelist"
	}

	duration := 24 * time.Hour
	if ttl := os.Getenv("CINELIST_JWT_TTL_HOURS"); ttl != "" {
		if hours, err := strconv.Atoi(ttl); err == nil && hours > 0 {
			duration = time.Duration(hours) * time.Hour
		}
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTIssuer:   issuer,
		JWTDuration: duration,
	}
}

// ProviderConfig points at the two upstream catalogs. Base URLs are
// overridable so tests can aim the clients at an httptest server.
type ProviderConfig struct {
	TMDBBaseURL string
	TMDBToken   string
	AniListURL  string
}

func LoadProviderConfig() ProviderConfig {
	cfg := ProviderConfig{
		TMDBBaseURL: "https://api.themoviedb.org/3",
		TMDBToken:   os.Getenv("CINELIST_TMDB_TOKEN"),
		AniListURL:  "https://graphql.anilist.co",
	}
	if v := os.Getenv("CINELIST_TMDB_BASE_URL"); v != "" {
		cfg.TMDBBaseURL = v
	}
	if v := os.Getenv("CINELIST_ANILIST_URL"); v != "" {
		cfg.AniListURL = v
	}
	return cfg
}

type ServerConfig struct {
	HTTPAddr string
	TCPAddr  string
}

func LoadServerConfig() ServerConfig {
	cfg := ServerConfig{
		HTTPAddr: ":8080",
		TCPAddr:  ":7070",
	}
	if v := os.Getenv("CINELIST_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("CINELIST_TCP_ADDR"); v != "" {
		cfg.TCPAddr = v
	}
	return cfg
}
