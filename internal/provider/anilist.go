package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"cinelist/pkg/models"
	"cinelist/pkg/utils"
)

// AniList fetches anime from an AniList-compatible GraphQL API.
type AniList struct {
	URL     string
	Client  *http.Client
	PerPage int
}

func NewAniList(cfg utils.ProviderConfig) *AniList {
	return &AniList{
		URL:     cfg.AniListURL,
		Client:  &http.Client{Timeout: 12 * time.Second},
		PerPage: 40,
	}
}

func (a *AniList) Name() string { return "anilist" }

const animeFields = `
id
title { romaji english }
description
startDate { year month day }
coverImage { large medium extraLarge }
bannerImage
averageScore
genres`

const popularAnimeQuery = `query ($page: Int, $perPage: Int) {
  Page(page: $page, perPage: $perPage) {
    media(type: ANIME, sort: POPULARITY_DESC) {` + animeFields + `
    }
  }
}`

const searchAnimeQuery = `query ($search: String, $page: Int, $perPage: Int) {
  Page(page: $page, perPage: $perPage) {
    media(type: ANIME, search: $search) {` + animeFields + `
    }
  }
}`

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type gqlResponse struct {
	Data struct {
		Page struct {
			Media []RawAnime `json:"media"`
		} `json:"Page"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (a *AniList) post(ctx context.Context, query string, vars map[string]any) ([]RawAnime, error) {
	payload, err := json.Marshal(gqlRequest{Query: query, Variables: vars})
	if err != nil {
		return nil, fmt.Errorf("anilist: marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("anilist: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("anilist: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("anilist: status %d: %s", resp.StatusCode, string(body))
	}

	var gr gqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("anilist: decode: %w", err)
	}
	if len(gr.Errors) > 0 {
		return nil, fmt.Errorf("anilist: graphql: %s", gr.Errors[0].Message)
	}
	return gr.Data.Page.Media, nil
}

// PopularAnime returns one popularity-ranked page of anime, normalized.
func (a *AniList) PopularAnime(ctx context.Context, page int) ([]models.Media, error) {
	if page < 1 {
		page = 1
	}
	raws, err := a.post(ctx, popularAnimeQuery, map[string]any{
		"page":    page,
		"perPage": a.PerPage,
	})
	if err != nil {
		return nil, err
	}
	return a.mapAnime(raws), nil
}

// SearchAnime searches anime by name.
func (a *AniList) SearchAnime(ctx context.Context, query string) ([]models.Media, error) {
	raws, err := a.post(ctx, searchAnimeQuery, map[string]any{
		"search":  query,
		"page":    1,
		"perPage": a.PerPage,
	})
	if err != nil {
		return nil, err
	}
	return a.mapAnime(raws), nil
}

func (a *AniList) mapAnime(raws []RawAnime) []models.Media {
	out := make([]models.Media, 0, len(raws))
	for _, r := range raws {
		if r.ID == 0 {
			continue
		}
		out = append(out, r.Normalize())
	}
	return out
}
