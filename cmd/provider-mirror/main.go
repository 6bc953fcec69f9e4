// provider-mirror serves canned provider responses from a local JSON file so
// the API server can run (and be demoed) without network access or API keys.
// Point CINELIST_TMDB_BASE_URL and CINELIST_ANILIST_URL at it.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"strings"
)

// mirrorData is the fixture file layout: raw provider payloads keyed by
// category, served back in each provider's native shape.
type mirrorData struct {
	Movies []json.RawMessage `json:"movies"`
	Series []json.RawMessage `json:"series"`
	Anime  []json.RawMessage `json:"anime"`
}

func main() {
	addr := flag.String("addr", ":8090", "listen address")
	dataPath := flag.String("data", "data/mirror.json", "fixture file")
	flag.Parse()

	load := func() (*mirrorData, error) {
		b, err := os.ReadFile(*dataPath)
		if err != nil {
			return nil, err
		}
		var md mirrorData
		if err := json.Unmarshal(b, &md); err != nil {
			return nil, err
		}
		return &md, nil
	}

	// sanity check at startup; the file is re-read per request so it can be
	// edited while the mirror runs
	if _, err := load(); err != nil {
		log.Fatalf("cannot load %s: %v", *dataPath, err)
	}

	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	tmdbPage := func(w http.ResponseWriter, results []json.RawMessage) {
		writeJSON(w, map[string]any{"page": 1, "results": results})
	}

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		md, err := load()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		switch {
		case r.URL.Path == "/movie/popular" || r.URL.Path == "/search/movie":
			tmdbPage(w, md.Movies)
		case r.URL.Path == "/tv/popular" || r.URL.Path == "/search/tv":
			tmdbPage(w, md.Series)
		case strings.HasPrefix(r.URL.Path, "/genre/"):
			writeJSON(w, map[string]any{"genres": []any{}})
		case r.Method == http.MethodPost:
			// AniList GraphQL endpoint; every query gets the full anime set
			writeJSON(w, map[string]any{
				"data": map[string]any{
					"Page": map[string]any{"media": md.Anime},
				},
			})
		default:
			http.NotFound(w, r)
		}
	})

	log.Printf("[provider-mirror] serving %s on %s", *dataPath, *addr)
	log.Fatal(http.ListenAndServe(*addr, nil))
}
