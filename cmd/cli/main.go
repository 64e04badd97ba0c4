package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const defaultBaseURL = "http://localhost:8080"

type tokenData struct {
	Token string `json:"token"`
}

type authResponse struct {
	Token string `json:"token"`
}

func main() {
	global := flag.NewFlagSet("aniboard", flag.ExitOnError)
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

	client := &http.Client{Timeout: 15 * time.Second}

	switch cmd {
	case "auth":
		handleAuth(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "feed":
		handleFeed(ctx, client, *baseURL, args[1:])
	case "search":
		handleSearch(ctx, client, *baseURL, args[1:])
	case "series":
		handleSeries(ctx, client, *baseURL, sub, args[2:])
	case "library":
		handleLibrary(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "recommend":
		handleRecommend(ctx, client, *baseURL, *tokenPath, args[1:])
	case "progress":
		handleProgress(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "watch":
		handleWatch(ctx, client, *baseURL, sub, args[2:])
	case "sync":
		handleSync(sub, args[2:])
	case "notify":
		handleNotify(*baseURL, sub, args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleAuth(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	switch sub {
	case "login":
		fs := flag.NewFlagSet("auth login", flag.ExitOnError)
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		_ = fs.Parse(args)

		if *email == "" || *password == "" {
			log.Fatal("email and password are required")
		}

		payload := map[string]string{"email": *email, "password": *password}
		var resp authResponse
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/auth/login", "", payload, &resp); err != nil {
			log.Fatalf("login failed: %v", err)
		}
		if err := saveToken(tokenPath, resp.Token); err != nil {
			log.Fatalf("save token: %v", err)
		}
		fmt.Println("logged in")
	case "register":
		fs := flag.NewFlagSet("auth register", flag.ExitOnError)
		username := fs.String("username", "", "username")
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		_ = fs.Parse(args)

		if *username == "" || *email == "" || *password == "" {
			log.Fatal("username, email, and password are required")
		}

		payload := map[string]string{"username": *username, "email": *email, "password": *password}
		var resp authResponse
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/auth/register", "", payload, &resp); err != nil {
			log.Fatalf("register failed: %v", err)
		}
		if err := saveToken(tokenPath, resp.Token); err != nil {
			log.Fatalf("save token: %v", err)
		}
		fmt.Println("registered and logged in")
	case "logout":
		if err := clearToken(tokenPath); err != nil {
			log.Fatalf("logout failed: %v", err)
		}
		fmt.Println("logged out")
	default:
		log.Fatal("usage: aniboard auth <login|register|logout>")
	}
}

func handleFeed(ctx context.Context, client *http.Client, baseURL string, args []string) {
	fs := flag.NewFlagSet("feed", flag.ExitOnError)
	facet := fs.String("facet", "UNIFIED", "facet: ANIME, MANGA, MANHWA, MANHUA, UNIFIED")
	_ = fs.Parse(args)

	u := baseURL + "/feed?facet=" + url.QueryEscape(*facet)
	var resp map[string]any
	if err := doJSON(ctx, client, http.MethodGet, u, "", nil, &resp); err != nil {
		log.Fatalf("feed failed: %v", err)
	}
	printJSON(resp)
}

func handleSearch(ctx context.Context, client *http.Client, baseURL string, args []string) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	query := fs.String("q", "", "search term")
	_ = fs.Parse(args)
	if *query == "" {
		log.Fatal("q is required")
	}

	u := baseURL + "/search?q=" + url.QueryEscape(*query)
	var resp map[string]any
	if err := doJSON(ctx, client, http.MethodGet, u, "", nil, &resp); err != nil {
		log.Fatalf("search failed: %v", err)
	}
	printJSON(resp)
}

func handleSeries(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	switch sub {
	case "show":
		fs := flag.NewFlagSet("series show", flag.ExitOnError)
		id := fs.Int("id", 0, "catalog id")
		_ = fs.Parse(args)
		if *id <= 0 {
			log.Fatal("id is required")
		}

		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, fmt.Sprintf("%s/series/%d", baseURL, *id), "", nil, &resp); err != nil {
			log.Fatalf("show failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: aniboard series show -id <catalog id>")
	}
}

func handleLibrary(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	token := mustToken(tokenPath)
	switch sub {
	case "add":
		fs := flag.NewFlagSet("library add", flag.ExitOnError)
		mediaID := fs.Int("media-id", 0, "catalog id")
		kind := fs.String("kind", "", "ANIME, MANGA, MANHWA or MANHUA")
		status := fs.String("status", "READING", "status")
		episode := fs.Int("episode", -1, "episode progress")
		chapter := fs.Int("chapter", -1, "chapter progress")
		volume := fs.Int("volume", -1, "volume progress")
		title := fs.String("title", "", "display title")
		_ = fs.Parse(args)
		if *mediaID <= 0 {
			log.Fatal("media-id is required")
		}
		if *kind == "" {
			log.Fatal("kind is required")
		}

		payload := map[string]any{
			"media_id":   *mediaID,
			"media_kind": *kind,
			"status":     *status,
		}
		if *episode >= 0 {
			payload["progress_episode"] = *episode
		}
		if *chapter >= 0 {
			payload["progress_chapter"] = *chapter
		}
		if *volume >= 0 {
			payload["progress_volume"] = *volume
		}
		if *title != "" {
			payload["title"] = *title
		}

		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/library", token, payload, &resp); err != nil {
			log.Fatalf("add failed: %v", err)
		}
		printJSON(resp)
	case "remove":
		fs := flag.NewFlagSet("library remove", flag.ExitOnError)
		mediaID := fs.Int("media-id", 0, "catalog id")
		_ = fs.Parse(args)
		if *mediaID <= 0 {
			log.Fatal("media-id is required")
		}

		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodDelete, fmt.Sprintf("%s/library/%d", baseURL, *mediaID), token, nil, &resp); err != nil {
			log.Fatalf("remove failed: %v", err)
		}
		printJSON(resp)
	case "list":
		fs := flag.NewFlagSet("library list", flag.ExitOnError)
		status := fs.String("status", "", "status filter")
		kind := fs.String("kind", "", "kind filter")
		limit := fs.Int("limit", 20, "page size")
		offset := fs.Int("offset", 0, "offset")
		_ = fs.Parse(args)

		u, err := url.Parse(baseURL + "/library")
		if err != nil {
			log.Fatalf("invalid base url: %v", err)
		}
		qv := u.Query()
		if *status != "" {
			qv.Set("status", *status)
		}
		if *kind != "" {
			qv.Set("kind", *kind)
		}
		qv.Set("limit", fmt.Sprintf("%d", *limit))
		qv.Set("offset", fmt.Sprintf("%d", *offset))
		u.RawQuery = qv.Encode()

		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, u.String(), token, nil, &resp); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: aniboard library <add|remove|list>")
	}
}

func handleRecommend(ctx context.Context, client *http.Client, baseURL, tokenPath string, args []string) {
	fs := flag.NewFlagSet("recommend", flag.ExitOnError)
	facet := fs.String("facet", "UNIFIED", "facet: ANIME, MANGA, MANHWA, MANHUA, UNIFIED")
	_ = fs.Parse(args)

	// works anonymously too, personalized only when a token is saved
	token, _ := readToken(tokenPath)

	u := baseURL + "/recommendations?facet=" + url.QueryEscape(*facet)
	var resp map[string]any
	if err := doJSON(ctx, client, http.MethodGet, u, token, nil, &resp); err != nil {
		log.Fatalf("recommend failed: %v", err)
	}
	printJSON(resp)
}

func handleProgress(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	token := mustToken(tokenPath)
	switch sub {
	case "update":
		fs := flag.NewFlagSet("progress update", flag.ExitOnError)
		mediaID := fs.Int("media-id", 0, "catalog id")
		episode := fs.Int("episode", -1, "episode progress")
		chapter := fs.Int("chapter", -1, "chapter progress")
		volume := fs.Int("volume", -1, "volume progress")
		status := fs.String("status", "", "status")
		_ = fs.Parse(args)
		if *mediaID <= 0 {
			log.Fatal("media-id is required")
		}

		payload := map[string]any{}
		if *episode >= 0 {
			payload["progress_episode"] = *episode
		}
		if *chapter >= 0 {
			payload["progress_chapter"] = *chapter
		}
		if *volume >= 0 {
			payload["progress_volume"] = *volume
		}
		if *status != "" {
			payload["status"] = *status
		}
		if len(payload) == 0 {
			log.Fatal("nothing to update")
		}

		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodPut, fmt.Sprintf("%s/library/%d", baseURL, *mediaID), token, payload, &resp); err != nil {
			log.Fatalf("update failed: %v", err)
		}
		printJSON(resp)
	case "history":
		fs := flag.NewFlagSet("progress history", flag.ExitOnError)
		mediaID := fs.Int("media-id", 0, "catalog id")
		limit := fs.Int("limit", 20, "page size")
		offset := fs.Int("offset", 0, "offset")
		_ = fs.Parse(args)
		if *mediaID <= 0 {
			log.Fatal("media-id is required")
		}

		u := fmt.Sprintf("%s/progress?media_id=%d&limit=%d&offset=%d", baseURL, *mediaID, *limit, *offset)
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, u, token, nil, &resp); err != nil {
			log.Fatalf("history failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: aniboard progress <update|history>")
	}
}

func handleWatch(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	switch sub {
	case "open":
		fs := flag.NewFlagSet("watch open", flag.ExitOnError)
		mediaID := fs.Int("media-id", 0, "catalog id")
		episode := fs.Int("episode", 1, "episode number")
		title := fs.String("title", "", "display title")
		_ = fs.Parse(args)
		if *mediaID <= 0 {
			log.Fatal("media-id is required")
		}

		payload := map[string]any{
			"media_id": *mediaID,
			"episode":  *episode,
			"title":    *title,
		}
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/playback/sessions", "", payload, &resp); err != nil {
			log.Fatalf("open failed: %v", err)
		}
		printJSON(resp)
	case "cycle":
		fs := flag.NewFlagSet("watch cycle", flag.ExitOnError)
		session := fs.String("session", "", "session id")
		_ = fs.Parse(args)
		if *session == "" {
			log.Fatal("session is required")
		}

		var resp map[string]any
		u := baseURL + "/playback/sessions/" + url.PathEscape(*session) + "/cycle"
		if err := doJSON(ctx, client, http.MethodPost, u, "", nil, &resp); err != nil {
			log.Fatalf("cycle failed: %v", err)
		}
		printJSON(resp)
	case "close":
		fs := flag.NewFlagSet("watch close", flag.ExitOnError)
		session := fs.String("session", "", "session id")
		_ = fs.Parse(args)
		if *session == "" {
			log.Fatal("session is required")
		}

		var resp map[string]any
		u := baseURL + "/playback/sessions/" + url.PathEscape(*session)
		if err := doJSON(ctx, client, http.MethodDelete, u, "", nil, &resp); err != nil {
			log.Fatalf("close failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: aniboard watch <open|cycle|close>")
	}
}

func handleSync(sub string, args []string) {
	switch sub {
	case "listen":
		fs := flag.NewFlagSet("sync listen", flag.ExitOnError)
		addr := fs.String("addr", "127.0.0.1:7070", "TCP sync server address")
		pretty := fs.Bool("pretty", true, "pretty print JSON events")
		_ = fs.Parse(args)
		for {
			if err := runSyncTCP(*addr, *pretty); err != nil {
				log.Printf("[sync] disconnected: %v", err)
			}
			time.Sleep(1 * time.Second)
		}
	default:
		log.Fatal("usage: aniboard sync listen")
	}
}

func handleNotify(baseURL, sub string, args []string) {
	switch sub {
	case "subscribe":
		fs := flag.NewFlagSet("notify subscribe", flag.ExitOnError)
		wsURL := fs.String("ws", "", "WebSocket URL (defaults to /ws on API host)")
		_ = fs.Parse(args)

		endpoint := *wsURL
		if endpoint == "" {
			var err error
			endpoint, err = websocketURL(baseURL, "/ws")
			if err != nil {
				log.Fatalf("ws url: %v", err)
			}
		}
		if err := runWebSocket(endpoint); err != nil {
			log.Fatalf("subscribe failed: %v", err)
		}
	default:
		log.Fatal("usage: aniboard notify subscribe")
	}
}

func runSyncTCP(addr string, pretty bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[sync] connected to %s", addr)
	reader := bufio.NewScanner(conn)
	for reader.Scan() {
		line := reader.Bytes()
		if !pretty {
			fmt.Println(string(line))
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal(line, &obj); err != nil {
			fmt.Println(string(line))
			continue
		}
		b, _ := json.MarshalIndent(obj, "", "  ")
		fmt.Println(string(b))
	}
	if err := reader.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}

func runWebSocket(wsURL string) error {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Printf("[notify] connected to %s", wsURL)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		fmt.Println(string(msg))
	}
}

func doJSON(ctx context.Context, client *http.Client, method, endpoint, token string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s failed: %s", method, endpoint, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
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
		return "./.aniboard-token.json"
	}
	return filepath.Join(home, ".aniboard", "token.json")
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
	return (&url.URL{
		Scheme: scheme,
		Host:   u.Host,
		Path:   path,
	}).String(), nil
}

func printUsage() {
	fmt.Println("aniboard <command> [subcommand] [flags]")
	fmt.Println("commands:")
	fmt.Println("  auth login|register|logout")
	fmt.Println("  feed -facet <FACET>")
	fmt.Println("  search -q <term>")
	fmt.Println("  series show -id <catalog id>")
	fmt.Println("  library add|remove|list")
	fmt.Println("  recommend -facet <FACET>")
	fmt.Println("  progress update|history")
	fmt.Println("  watch open|cycle|close")
	fmt.Println("  sync listen")
	fmt.Println("  notify subscribe")
}
