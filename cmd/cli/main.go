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
	"github.com/joho/godotenv"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"pricecompare/internal/grpcserver"
	"pricecompare/internal/pricechart"
	"pricecompare/internal/wishlist"
)

const defaultBaseURL = "http://localhost:8080"

type tokenData struct {
	ProfileID string `json:"profile_id"`
	Token     string `json:"token"`
}

type profileResponse struct {
	ProfileID string `json:"profile_id"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

type searchesResponse struct {
	Searches []string `json:"searches"`
}

type wishlistResponse struct {
	Total int             `json:"total"`
	Items []wishlist.Item `json:"items"`
}

func main() {
	_ = godotenv.Load()

	global := flag.NewFlagSet("pricecompare", flag.ExitOnError)
	baseURL := global.String("api", envOr("PRICECOMPARE_API", defaultBaseURL), "API base URL")
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
	rest := []string{}
	if len(args) > 1 {
		sub = args[1]
		rest = args[2:]
	}

	client := &http.Client{Timeout: 15 * time.Second}

	switch cmd {
	case "profile":
		handleProfile(ctx, client, *baseURL, *tokenPath, sub)
	case "search":
		handleSearch(ctx, client, *baseURL, *tokenPath, sub, rest)
	case "wishlist":
		handleWishlist(ctx, client, *baseURL, *tokenPath, sub, rest)
	case "chart":
		handleChart(ctx, client, *baseURL, sub, rest)
	case "session":
		handleSession(ctx, client, *baseURL, *tokenPath, sub, rest)
	case "sync":
		handleSync(*tokenPath, sub, rest)
	case "notify":
		handleNotify(*baseURL, *tokenPath, sub)
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleProfile(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string) {
	switch sub {
	case "create":
		var resp profileResponse
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/profiles", "", nil, &resp); err != nil {
			log.Fatalf("create profile failed: %v", err)
		}
		if err := saveToken(tokenPath, tokenData{ProfileID: resp.ProfileID, Token: resp.Token}); err != nil {
			log.Fatalf("save token: %v", err)
		}
		fmt.Printf("✅ profile %s created (expires %s)\n", resp.ProfileID, resp.ExpiresAt)
	case "show":
		td, err := readToken(tokenPath)
		if err != nil {
			log.Fatalf("no profile, run: pricecompare profile create (%v)", err)
		}
		fmt.Println(td.ProfileID)
	case "forget":
		if err := clearToken(tokenPath); err != nil {
			log.Fatalf("forget profile failed: %v", err)
		}
		fmt.Println("✅ profile token removed")
	default:
		log.Fatal("usage: pricecompare profile <create|show|forget>")
	}
}

func handleSearch(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	token := mustToken(tokenPath)
	switch sub {
	case "add":
		term := strings.TrimSpace(strings.Join(args, " "))
		if term == "" {
			log.Fatal("usage: pricecompare search add <term>")
		}
		var resp searchesResponse
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/me/searches", token, map[string]string{"term": term}, &resp); err != nil {
			log.Fatalf("add search failed: %v", err)
		}
		printSearches(resp.Searches)
	case "list":
		var resp searchesResponse
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/me/searches", token, nil, &resp); err != nil {
			log.Fatalf("list searches failed: %v", err)
		}
		printSearches(resp.Searches)
	case "clear":
		if err := doJSON(ctx, client, http.MethodDelete, baseURL+"/me/searches", token, nil, nil); err != nil {
			log.Fatalf("clear searches failed: %v", err)
		}
		fmt.Println("✅ recent searches cleared")
	default:
		log.Fatal("usage: pricecompare search <add|list|clear>")
	}
}

func printSearches(items []string) {
	if len(items) == 0 {
		fmt.Println("(no recent searches)")
		return
	}
	for i, s := range items {
		fmt.Printf("%d. %s\n", i+1, s)
	}
}

func handleWishlist(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	token := mustToken(tokenPath)
	switch sub {
	case "toggle":
		fs := flag.NewFlagSet("wishlist toggle", flag.ExitOnError)
		title := fs.String("title", "", "product title")
		price := fs.String("price", "", "displayed price")
		store := fs.String("store", "", "store name")
		_ = fs.Parse(args)
		if *title == "" || *price == "" || *store == "" {
			log.Fatal("title, price and store are required")
		}

		payload := map[string]string{"title": *title, "price": *price, "store": *store}
		var resp struct {
			Added bool `json:"added"`
		}
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/me/wishlist/toggle", token, payload, &resp); err != nil {
			log.Fatalf("toggle failed: %v", err)
		}
		if resp.Added {
			fmt.Println("❤️  added to wishlist")
		} else {
			fmt.Println("🤍 removed from wishlist")
		}
	case "list":
		items, err := fetchWishlist(ctx, client, baseURL, token)
		if err != nil {
			log.Fatalf("list wishlist failed: %v", err)
		}
		if len(items) == 0 {
			fmt.Println("(wishlist is empty)")
			return
		}
		for _, it := range items {
			fmt.Printf("- %s | %s | %s | %s\n", it.Title, it.Store, it.Price, it.AddedAt.Local().Format("2006-01-02 15:04"))
		}
	case "has":
		fs := flag.NewFlagSet("wishlist has", flag.ExitOnError)
		title := fs.String("title", "", "product title")
		store := fs.String("store", "", "store name")
		_ = fs.Parse(args)

		u, err := url.Parse(baseURL + "/me/wishlist/contains")
		if err != nil {
			log.Fatalf("bad api url: %v", err)
		}
		qv := u.Query()
		qv.Set("title", *title)
		qv.Set("store", *store)
		u.RawQuery = qv.Encode()

		var resp struct {
			Wishlisted bool `json:"wishlisted"`
		}
		if err := doJSON(ctx, client, http.MethodGet, u.String(), token, nil, &resp); err != nil {
			log.Fatalf("check failed: %v", err)
		}
		fmt.Println(resp.Wishlisted)
	case "export":
		fs := flag.NewFlagSet("wishlist export", flag.ExitOnError)
		format := fs.String("format", "json", "json or csv")
		out := fs.String("out", "", "output file (default stdout)")
		_ = fs.Parse(args)

		items, err := fetchWishlist(ctx, client, baseURL, token)
		if err != nil {
			log.Fatalf("fetch wishlist failed: %v", err)
		}
		if err := exportWishlist(*format, *out, items); err != nil {
			log.Fatalf("export failed: %v", err)
		}
		if *out != "" {
			log.Printf("✅ exported %d items to %s", len(items), *out)
		}
	default:
		log.Fatal("usage: pricecompare wishlist <toggle|list|has|export>")
	}
}

func fetchWishlist(ctx context.Context, client *http.Client, baseURL, token string) ([]wishlist.Item, error) {
	var resp wishlistResponse
	if err := doJSON(ctx, client, http.MethodGet, baseURL+"/me/wishlist", token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func exportWishlist(format, path string, items []wishlist.Item) error {
	var w io.Writer = os.Stdout
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "json":
		return wishlist.ExportJSON(w, items)
	case "csv":
		return wishlist.ExportCSV(w, items)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func handleChart(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	if sub != "show" {
		log.Fatal("usage: pricecompare chart show -price <text> [-grpc addr]")
	}
	fs := flag.NewFlagSet("chart show", flag.ExitOnError)
	price := fs.String("price", "", "displayed price, e.g. ₹1,29,999")
	grpcAddr := fs.String("grpc", "", "use the gRPC service at this address instead of HTTP")
	_ = fs.Parse(args)
	if strings.TrimSpace(*price) == "" {
		log.Fatal("price is required")
	}

	var (
		points []pricechart.PricePoint
		err    error
	)
	if *grpcAddr != "" {
		points, err = chartOverGRPC(ctx, *grpcAddr, *price)
	} else {
		var chart pricechart.Chart
		err = doJSON(ctx, client, http.MethodGet, baseURL+"/chart?price="+url.QueryEscape(*price), "", nil, &chart)
		points = chart.Points
	}
	if err != nil {
		log.Fatalf("chart failed: %v", err)
	}
	printChart(points)
}

func chartOverGRPC(ctx context.Context, addr, price string) ([]pricechart.PricePoint, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return grpcserver.NewClient(conn).Synthesize(ctx, price)
}

func printChart(points []pricechart.PricePoint) {
	var hi int64
	for _, p := range points {
		if p.Value > hi {
			hi = p.Value
		}
	}
	for _, p := range points {
		width := 0
		if hi > 0 {
			width = int(p.Value * 40 / hi)
		}
		fmt.Printf("%-7s %8d %s\n", p.Label, p.Value, strings.Repeat("█", width))
	}
}

func handleSession(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	token := mustToken(tokenPath)
	switch sub {
	case "start":
		fs := flag.NewFlagSet("session start", flag.ExitOnError)
		name := fs.String("name", "", "user name")
		email := fs.String("email", "", "email address")
		_ = fs.Parse(args)
		if *name == "" {
			log.Fatal("name is required")
		}
		payload := map[string]any{"user": map[string]string{"name": *name, "email": *email}}
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/me/session", token, payload, nil); err != nil {
			log.Fatalf("session start failed: %v", err)
		}
		fmt.Printf("✅ signed in as %s\n", *name)
	case "show":
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/me/session", token, nil, &resp); err != nil {
			log.Fatalf("session show failed: %v", err)
		}
		printJSON(resp)
	case "clear":
		if err := doJSON(ctx, client, http.MethodDelete, baseURL+"/me/session", token, nil, nil); err != nil {
			log.Fatalf("logout failed: %v", err)
		}
		fmt.Println("✅ logged out")
	default:
		log.Fatal("usage: pricecompare session <start|show|clear>")
	}
}

func handleSync(tokenPath, sub string, args []string) {
	if sub != "listen" {
		log.Fatal("usage: pricecompare sync listen")
	}
	fs := flag.NewFlagSet("sync listen", flag.ExitOnError)
	addr := fs.String("addr", envOr("PRICECOMPARE_SYNC_ADDR", "localhost:7070"), "TCP sync address")
	pretty := fs.Bool("pretty", false, "pretty-print JSON lines")
	_ = fs.Parse(args)

	if err := runSyncTCP(*addr, mustToken(tokenPath), *pretty); err != nil && !errors.Is(err, os.ErrClosed) {
		log.Fatalf("sync listen failed: %v", err)
	}
}

func handleNotify(baseURL, tokenPath, sub string) {
	if sub != "subscribe" {
		log.Fatal("usage: pricecompare notify subscribe")
	}
	wsURL, err := websocketURL(baseURL, "/ws", mustToken(tokenPath))
	if err != nil {
		log.Fatalf("bad api url: %v", err)
	}
	if err := runWebSocket(wsURL); err != nil {
		log.Fatalf("notify failed: %v", err)
	}
}

func runSyncTCP(addr, token string, pretty bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	hello, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return err
	}
	if _, err := conn.Write(append(hello, '\n')); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

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
	log.Printf("[notify] connected")
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

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./.pricecompare-token.json"
	}
	return filepath.Join(home, ".pricecompare", "token.json")
}

func saveToken(path string, td tokenData) error {
	if td.Token == "" {
		return errors.New("empty token")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(td, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func readToken(path string) (tokenData, error) {
	var td tokenData
	data, err := os.ReadFile(path)
	if err != nil {
		return td, err
	}
	if err := json.Unmarshal(data, &td); err != nil {
		return td, err
	}
	td.Token = strings.TrimSpace(td.Token)
	return td, nil
}

func mustToken(path string) string {
	td, err := readToken(path)
	if err != nil {
		log.Fatalf("no profile token, run: pricecompare profile create (%v)", err)
	}
	if td.Token == "" {
		log.Fatal("token empty, run: pricecompare profile create")
	}
	return td.Token
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

func websocketURL(baseURL, path, token string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return (&url.URL{
		Scheme:   scheme,
		Host:     u.Host,
		Path:     path,
		RawQuery: url.Values{"token": {token}}.Encode(),
	}).String(), nil
}

func printUsage() {
	fmt.Println("pricecompare [-api url] [-token file] <command> [subcommand] [flags]")
	fmt.Println("commands:")
	fmt.Println("  profile create|show|forget")
	fmt.Println("  search add|list|clear")
	fmt.Println("  wishlist toggle|list|has|export")
	fmt.Println("  chart show")
	fmt.Println("  session start|show|clear")
	fmt.Println("  sync listen")
	fmt.Println("  notify subscribe")
}
