package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"cinelist/internal/client"
	"cinelist/internal/query"
	"cinelist/pkg/models"
)

const defaultBaseURL = "http://localhost:8080"

type tokenData struct {
	Token string `json:"token"`
}

func main() {
	global := flag.NewFlagSet("cinelist", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	tokenPath := global.String("token", defaultTokenPath(), "token file path")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	cmd := args[0]
	sub := ""
	if len(args) > 1 {
		sub = args[1]
	}

	api := client.New(*baseURL)

	switch cmd {
	case "auth":
		handleAuth(ctx, api, *tokenPath, sub, args[2:])
	case "media":
		handleMedia(ctx, api, sub, args[2:])
	case "user":
		api.Token = mustToken(*tokenPath)
		handleUser(ctx, api, sub, args[2:])
	case "list":
		api.Token = mustToken(*tokenPath)
		handleList(ctx, api, sub, args[2:])
	case "rate":
		api.Token = mustToken(*tokenPath)
		handleRate(ctx, api, sub, args[2:])
	case "sync":
		handleSync(*baseURL, sub, args[2:])
	case "export":
		api.Token = mustToken(*tokenPath)
		handleExport(ctx, api, sub, args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleAuth(ctx context.Context, api *client.Client, tokenPath, sub string, args []string) {
	switch sub {
	case "login":
		fs := flag.NewFlagSet("auth login", flag.ExitOnError)
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		_ = fs.Parse(args)

		if *email == "" || *password == "" {
			log.Fatal("email and password are required")
		}

		s, err := api.Login(ctx, *email, *password)
		if err != nil {
			log.Fatalf("login failed: %v", err)
		}
		if err := saveToken(tokenPath, s.Token); err != nil {
			log.Fatalf("save token: %v", err)
		}
		fmt.Printf("logged in as %s\n", s.User.Username)
	case "register":
		fs := flag.NewFlagSet("auth register", flag.ExitOnError)
		username := fs.String("username", "", "username")
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		_ = fs.Parse(args)

		if *username == "" || *email == "" || *password == "" {
			log.Fatal("username, email, and password are required")
		}

		s, err := api.Register(ctx, *username, *email, *password)
		if err != nil {
			log.Fatalf("register failed: %v", err)
		}
		if err := saveToken(tokenPath, s.Token); err != nil {
			log.Fatalf("save token: %v", err)
		}
		fmt.Printf("registered and logged in as %s\n", s.User.Username)
	case "me":
		api.Token = mustToken(tokenPath)
		u, err := api.Me(ctx)
		if err != nil {
			log.Fatalf("me failed: %v", err)
		}
		printJSON(u)
	case "logout":
		if err := clearToken(tokenPath); err != nil {
			log.Fatalf("logout failed: %v", err)
		}
		fmt.Println("logged out")
	case "delete":
		api.Token = mustToken(tokenPath)
		if !confirm("delete your account and everything in it?") {
			fmt.Println("aborted")
			return
		}
		if err := api.DeleteAccount(ctx); err != nil {
			log.Fatalf("delete failed: %v", err)
		}
		_ = clearToken(tokenPath)
		fmt.Println("account deleted")
	default:
		log.Fatal("usage: cinelist auth <login|register|me|logout|delete>")
	}
}

func handleMedia(ctx context.Context, api *client.Client, sub string, args []string) {
	switch sub {
	case "popular", "search":
		fs := flag.NewFlagSet("media "+sub, flag.ExitOnError)
		name := fs.String("name", "", "search by name (search only)")
		filter := fs.String("filter", "all", "category: all|movie|serie|anime")
		q := fs.String("q", "", "narrow the loaded results by title")
		state := fs.String("state", "", `encoded view, e.g. "filter=anime&q=naruto" (overrides -filter and -q)`)
		sorted := fs.Bool("sort", false, "sort by title")
		_ = fs.Parse(args)

		// the view is shareable: -state accepts what a previous run printed
		var vs query.ViewState
		if *state != "" {
			vals, err := url.ParseQuery(*state)
			if err != nil {
				log.Fatalf("bad state: %v", err)
			}
			vs = query.ParseViewState(vals)
		} else {
			f, err := query.ParseFilter(*filter)
			if err != nil {
				log.Fatalf("bad filter: %v", err)
			}
			vs = query.ViewState{Filter: f, Query: *q}
		}

		var items []models.Media
		var err error
		if sub == "search" {
			if strings.TrimSpace(*name) == "" {
				log.Fatal("-name is required for search")
			}
			items, err = api.SearchAll(ctx, *name)
		} else {
			items, err = api.PopularAll(ctx)
		}
		if err != nil {
			log.Fatalf("%s failed: %v", sub, err)
		}

		items = query.SelectVisible(items, vs.Filter, vs.Query)
		if *sorted {
			query.SortByTitle(items)
		}
		for _, m := range items {
			fmt.Printf("%-6s %-8d %.1f  %s\n", m.Type, m.ID, m.VoteAverage, m.Title)
		}
		if enc := vs.Values().Encode(); enc != "" {
			fmt.Printf("view: %s\n", enc)
		}
	default:
		log.Fatal("usage: cinelist media <popular|search> [flags]")
	}
}

func handleUser(ctx context.Context, api *client.Client, sub string, args []string) {
	switch sub {
	case "list":
		users, err := api.Users(ctx)
		if err != nil {
			log.Fatalf("fetch users failed: %v", err)
		}
		for _, u := range users {
			fmt.Printf("%-36s %s\n", u.ID, u.Username)
		}
	case "show":
		fs := flag.NewFlagSet("user show", flag.ExitOnError)
		id := fs.String("id", "", "user id")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("-id is required")
		}

		u, err := api.User(ctx, *id)
		if err != nil {
			log.Fatalf("fetch user failed: %v", err)
		}
		lists, err := api.UserListsByID(ctx, *id)
		if err != nil {
			log.Fatalf("fetch lists failed: %v", err)
		}
		ratings, err := api.UserRatingsByID(ctx, *id)
		if err != nil {
			log.Fatalf("fetch ratings failed: %v", err)
		}

		fmt.Printf("%s (since %s)\n", u.Username, u.CreatedAt.Format("2006-01-02"))
		fmt.Printf("lists (%d):\n", len(lists))
		for _, l := range lists {
			fmt.Printf("  %-6d %-30s %d item(s)\n", l.ID, l.Name, l.ItemCount)
		}
		fmt.Printf("ratings (%d):\n", len(ratings))
		for _, rt := range ratings {
			fmt.Printf("  %-6s %-8d %.1f  %s\n", rt.MediaType, rt.MediaID, rt.Score, rt.Title)
		}
	default:
		log.Fatal("usage: cinelist user <list|show> [flags]")
	}
}

func handleList(ctx context.Context, api *client.Client, sub string, args []string) {
	agg := client.NewAggregate(api)

	switch sub {
	case "create":
		fs := flag.NewFlagSet("list create", flag.ExitOnError)
		name := fs.String("name", "", "list name")
		desc := fs.String("desc", "", "description")
		_ = fs.Parse(args)

		all, err := agg.CreateList(ctx, *name, *desc)
		if err != nil {
			log.Fatalf("create failed: %v", err)
		}
		fmt.Printf("created; you now have %d list(s)\n", len(all))
	case "mine":
		all, err := agg.FetchLists(ctx)
		if err != nil {
			log.Fatalf("fetch failed: %v", err)
		}
		for _, l := range all {
			fmt.Printf("%-6d %-30s %d item(s)\n", l.ID, l.Name, l.ItemCount)
		}
	case "show":
		fs := flag.NewFlagSet("list show", flag.ExitOnError)
		id := fs.Int64("id", 0, "list id")
		filter := fs.String("filter", "all", "category: all|movie|serie|anime")
		q := fs.String("q", "", "narrow by title")
		_ = fs.Parse(args)

		l, err := api.GetList(ctx, *id)
		if err != nil {
			log.Fatalf("show failed: %v", err)
		}

		f, err := query.ParseFilter(*filter)
		if err != nil {
			log.Fatalf("bad filter: %v", err)
		}
		media := make([]models.Media, 0, len(l.Items))
		for _, it := range l.Items {
			media = append(media, it.Media())
		}
		media = query.SelectVisible(media, f, *q)
		query.SortByTitle(media)

		fmt.Printf("%s — %d of %d item(s)\n", l.Name, len(media), l.ItemCount)
		for _, m := range media {
			fmt.Printf("%-6s %-8d %s\n", m.Type, m.ID, m.Title)
		}
	case "delete":
		fs := flag.NewFlagSet("list delete", flag.ExitOnError)
		id := fs.Int64("id", 0, "list id")
		_ = fs.Parse(args)

		if !confirm("delete this list and all its items?") {
			fmt.Println("aborted")
			return
		}
		if _, err := agg.DeleteList(ctx, *id); err != nil {
			log.Fatalf("delete failed: %v", err)
		}
		fmt.Println("deleted")
	case "add":
		addItemInteractive(ctx, api, agg, args)
	case "remove-item":
		fs := flag.NewFlagSet("list remove-item", flag.ExitOnError)
		id := fs.Int64("id", 0, "list id")
		mediaID := fs.Int64("media-id", 0, "media id")
		mediaType := fs.String("type", "", "media type: movie|serie|anime")
		_ = fs.Parse(args)

		key := models.MediaKey{Type: models.MediaType(*mediaType), ID: *mediaID}
		l, err := agg.RemoveItem(ctx, *id, key)
		if err != nil {
			log.Fatalf("remove failed: %v", err)
		}
		fmt.Printf("removed; %s now has %d item(s)\n", l.Name, l.ItemCount)
	default:
		log.Fatal("usage: cinelist list <create|mine|show|delete|add|remove-item> [flags]")
	}
}

// addItemInteractive walks the same steps as the web modal: open for a media
// entry, pick one of the loaded lists, submit.
func addItemInteractive(ctx context.Context, api *client.Client, agg *client.Aggregate, args []string) {
	fs := flag.NewFlagSet("list add", flag.ExitOnError)
	mediaID := fs.Int64("media-id", 0, "media id")
	mediaType := fs.String("type", "", "media type: movie|serie|anime")
	title := fs.String("title", "", "media title")
	_ = fs.Parse(args)

	mt := models.MediaType(*mediaType)
	if *mediaID == 0 || !mt.Valid() {
		log.Fatal("-media-id and a valid -type are required")
	}

	flow := client.NewAddToListFlow(agg)
	if err := flow.Open(ctx, models.Media{ID: *mediaID, Type: mt, Title: *title}); err != nil {
		log.Fatalf("load lists failed: %v", err)
	}

	choices := flow.Lists()
	if len(choices) == 0 {
		log.Fatal("you have no lists yet; create one first")
	}
	for _, l := range choices {
		fmt.Printf("%-6d %s\n", l.ID, l.Name)
	}

	fmt.Print("add to list id: ")
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	listID, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
	if err != nil {
		log.Fatalf("bad list id: %v", err)
	}

	if err := flow.Submit(ctx, listID); err != nil {
		var dup *client.DuplicateItemError
		if errors.As(err, &dup) {
			log.Fatalf("not added: %s", dup.Detail)
		}
		log.Fatalf("add failed: %v", err)
	}
	fmt.Println("added")
}

func handleRate(ctx context.Context, api *client.Client, sub string, args []string) {
	agg := client.NewAggregate(api)

	switch sub {
	case "set":
		fs := flag.NewFlagSet("rate set", flag.ExitOnError)
		mediaID := fs.Int64("media-id", 0, "media id")
		mediaType := fs.String("type", "", "media type: movie|serie|anime")
		title := fs.String("title", "", "media title")
		score := fs.Float64("score", -1, "score 0-10")
		comment := fs.String("comment", "", "optional comment")
		_ = fs.Parse(args)

		mt := models.MediaType(*mediaType)
		if *mediaID == 0 || !mt.Valid() {
			log.Fatal("-media-id and a valid -type are required")
		}

		session := client.NewRatingSession(agg, models.Media{ID: *mediaID, Type: mt, Title: *title})
		if err := session.Load(ctx); err != nil {
			log.Fatalf("load rating failed: %v", err)
		}
		if cur := session.Current(); cur != nil {
			fmt.Printf("updating existing rating (%.1f)\n", cur.Score)
		}
		session.Edit()
		if err := session.Submit(ctx, *score, *comment); err != nil {
			log.Fatalf("rate failed: %v", err)
		}
		fmt.Printf("rated %.1f\n", *score)
	case "delete":
		fs := flag.NewFlagSet("rate delete", flag.ExitOnError)
		mediaID := fs.Int64("media-id", 0, "media id")
		mediaType := fs.String("type", "", "media type: movie|serie|anime")
		_ = fs.Parse(args)

		mt := models.MediaType(*mediaType)
		if *mediaID == 0 || !mt.Valid() {
			log.Fatal("-media-id and a valid -type are required")
		}
		if !confirm("delete your rating?") {
			fmt.Println("aborted")
			return
		}

		session := client.NewRatingSession(agg, models.Media{ID: *mediaID, Type: mt})
		done := make(chan struct{})
		session.OnRedirect = func() { close(done) }

		session.Edit()
		if err := session.Delete(ctx); err != nil {
			log.Fatalf("delete failed: %v", err)
		}
		fmt.Println("rating deleted")
		<-done
	case "mine":
		out, err := agg.FetchRatings(ctx)
		if err != nil {
			log.Fatalf("fetch failed: %v", err)
		}
		for _, rt := range out {
			fmt.Printf("%-6s %-8d %.1f  %s\n", rt.MediaType, rt.MediaID, rt.Score, rt.Title)
		}
	default:
		log.Fatal("usage: cinelist rate <set|delete|mine> [flags]")
	}
}

func handleSync(baseURL, sub string, args []string) {
	switch sub {
	case "listen":
		fs := flag.NewFlagSet("sync listen", flag.ExitOnError)
		addr := fs.String("addr", "localhost:7070", "TCP sync address")
		_ = fs.Parse(args)
		if err := runSyncTCP(*addr); err != nil {
			log.Fatalf("sync listen failed: %v", err)
		}
	case "ws":
		wsURL, err := websocketURL(baseURL, "/ws")
		if err != nil {
			log.Fatalf("bad api url: %v", err)
		}
		if err := runWebSocket(wsURL); err != nil {
			log.Fatalf("ws failed: %v", err)
		}
	default:
		log.Fatal("usage: cinelist sync <listen|ws>")
	}
}

func runSyncTCP(addr string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("connected to %s, waiting for events...\n", addr)
	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		fmt.Println(sc.Text())
	}
	return sc.Err()
}

func runWebSocket(wsURL string) error {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("connected to %s, waiting for events...\n", wsURL)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		fmt.Println(string(msg))
	}
}

func handleExport(ctx context.Context, api *client.Client, sub string, args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("out", "", "output file path")
	_ = fs.Parse(args)
	if *out == "" {
		log.Fatal("-out is required")
	}

	agg := client.NewAggregate(api)
	ratings, err := agg.FetchRatings(ctx)
	if err != nil {
		log.Fatalf("fetch ratings failed: %v", err)
	}

	switch sub {
	case "json":
		if err := writeJSON(*out, ratings); err != nil {
			log.Fatalf("write json: %v", err)
		}
	case "csv":
		if err := writeCSV(*out, ratings); err != nil {
			log.Fatalf("write csv: %v", err)
		}
	default:
		log.Fatal("usage: cinelist export <json|csv> -out <path>")
	}
	fmt.Printf("exported %d rating(s) to %s\n", len(ratings), *out)
}

func writeJSON(path string, items []models.Rating) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

func writeCSV(path string, items []models.Rating) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"media_type", "media_id", "title", "rating", "comment", "updated_at"}); err != nil {
		return err
	}
	for _, rt := range items {
		rec := []string{
			string(rt.MediaType),
			strconv.FormatInt(rt.MediaID, 10),
			rt.Title,
			strconv.FormatFloat(rt.Score, 'f', 1, 64),
			rt.Comment,
			rt.UpdatedAt.Format(time.RFC3339),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Error()
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("json: %v", err)
	}
	fmt.Println(string(b))
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./.cinelist-token.json"
	}
	return filepath.Join(home, ".cinelist", "token.json")
}

func saveToken(path, token string) error {
	if token == "" {
		return errors.New("empty token")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(tokenData{Token: token}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func readToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var td tokenData
	if err := json.Unmarshal(data, &td); err != nil {
		return "", err
	}
	return strings.TrimSpace(td.Token), nil
}

func mustToken(path string) string {
	token, err := readToken(path)
	if err != nil {
		log.Fatalf("token not found, please login: %v", err)
	}
	if token == "" {
		log.Fatal("token empty, please login")
	}
	return token
}

func clearToken(path string) error {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

func websocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return (&url.URL{Scheme: scheme, Host: u.Host, Path: path}).String(), nil
}

func printUsage() {
	fmt.Println("cinelist <command> [subcommand] [flags]")
	fmt.Println("commands:")
	fmt.Println("  auth login|register|me|logout|delete")
	fmt.Println("  media popular|search")
	fmt.Println("  user list|show")
	fmt.Println("  list create|mine|show|delete|add|remove-item")
	fmt.Println("  rate set|delete|mine")
	fmt.Println("  sync listen|ws")
	fmt.Println("  export json|csv")
}
