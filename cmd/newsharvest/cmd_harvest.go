package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"newsharvest/internal/config"
	"newsharvest/pkg/cache"
	"newsharvest/pkg/fetch"
	"newsharvest/pkg/harvest"
	"newsharvest/pkg/logging"
	"newsharvest/pkg/query"
)

var harvestFlags struct {
	configPath string
	source     string
	params     []string
	output     string
	pageSize   int
	maxPages   int
	delay      time.Duration
	apiKeyFile string
	redisAddr  string
	cacheTTL   time.Duration
}

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Fetch every page of a query and write the combined table",
	RunE:  runHarvest,
}

func init() {
	f := harvestCmd.Flags()
	f.StringVar(&harvestFlags.configPath, "config", "sources.yml", "Source catalog file")
	f.StringVar(&harvestFlags.source, "source", "", "Source name from the catalog (required)")
	f.StringArrayVar(&harvestFlags.params, "param", nil, "Query parameter as key=value (repeatable)")
	f.StringVarP(&harvestFlags.output, "output", "o", "", "CSV output path (default stdout)")
	f.IntVar(&harvestFlags.pageSize, "page-size", 0, "Records per page (default from catalog)")
	f.IntVar(&harvestFlags.maxPages, "max-pages", 0, "Cap on pages attempted (0 = run to completion)")
	f.DurationVar(&harvestFlags.delay, "delay", -1, "Pause between page requests (default from catalog)")
	f.StringVar(&harvestFlags.apiKeyFile, "api-key-file", "", "File holding the API key (overrides the source's env variable)")
	f.StringVar(&harvestFlags.redisAddr, "redis", "", "Redis address for the page cache (empty = no cache)")
	f.DurationVar(&harvestFlags.cacheTTL, "cache-ttl", 24*time.Hour, "Page cache entry lifetime")

	_ = harvestCmd.MarkFlagRequired("source")
}

func runHarvest(cmd *cobra.Command, _ []string) error {
	catalog, err := config.NewCatalogFromFile(harvestFlags.configPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(catalog.Global.Logger.Level),
		Pretty: catalog.Global.Logger.Pretty,
		Output: os.Stderr,
	})

	src, ok := catalog.Source(harvestFlags.source)
	if !ok {
		return fmt.Errorf("unknown source %q", harvestFlags.source)
	}

	params, err := mergeParams(src.Params, harvestFlags.params)
	if err != nil {
		return err
	}

	apiKey, err := loadAPIKey(src)
	if err != nil {
		return err
	}

	fetchCfg := fetch.Config{
		Source:      src.Name,
		UserAgent:   catalog.Global.UserAgent,
		RecordsPath: src.RecordsPath,
		TotalPath:   src.TotalPath,
		CacheTTL:    harvestFlags.cacheTTL,
	}

	if harvestFlags.redisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr: harvestFlags.redisAddr,
		})
		if err := redisClient.Ping(cmd.Context()).Err(); err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisClient.Close()
		fetchCfg.Cache = cache.NewManager(redisClient)
	}

	fetcher, err := fetch.New(fetchCfg)
	if err != nil {
		return fmt.Errorf("create fetcher: %w", err)
	}

	pageSize := harvestFlags.pageSize
	if pageSize <= 0 {
		pageSize = src.PageSize
	}
	if pageSize <= 0 {
		pageSize = catalog.Harvest.PageSize
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	delay := harvestFlags.delay
	if delay < 0 {
		delay = time.Duration(catalog.Harvest.DelaySeconds) * time.Second
	}

	maxPages := harvestFlags.maxPages
	if maxPages <= 0 {
		maxPages = catalog.Harvest.MaxPages
	}

	q := query.Query{
		Base:        src.Base,
		Endpoint:    src.Endpoint,
		Params:      params,
		PageParam:   src.PageParam,
		PageBase:    src.PageBase,
		APIKey:      apiKey,
		APIKeyParam: src.APIKeyParam,
		PageSize:    pageSize,
	}

	// Ctrl-C stops the run at the next pause boundary; the in-flight
	// request finishes first.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := harvest.New(fetcher, harvest.Config{
		Delay:    delay,
		MaxPages: maxPages,
	})
	result := h.Harvest(ctx, q)

	if result.Outcome == harvest.OutcomeFailure {
		return fmt.Errorf("harvest failed: %v", result.Failures[0].Err)
	}

	out := cmd.OutOrStdout()
	if harvestFlags.output != "" {
		file, err := os.Create(harvestFlags.output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer file.Close()
		out = file
	}

	if err := writeCSV(out, result.Records); err != nil {
		return fmt.Errorf("write table: %w", err)
	}

	logger.Info().
		Str("source", src.Name).
		Str("outcome", string(result.Outcome)).
		Int("records", len(result.Records)).
		Int("pages_attempted", result.PagesAttempted).
		Int("pages_succeeded", result.PagesSucceeded).
		Msg("Harvest finished")

	return nil
}

// mergeParams overlays key=value flags onto the source's fixed parameters.
func mergeParams(fixed map[string]string, kvs []string) (map[string]string, error) {
	params := make(map[string]string, len(fixed)+len(kvs))
	for k, v := range fixed {
		params[k] = v
	}
	for _, kv := range kvs {
		key, value, found := strings.Cut(kv, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("malformed --param %q, want key=value", kv)
		}
		params[key] = value
	}
	return params, nil
}

// loadAPIKey resolves the credential for a source: an explicit key file
// wins, otherwise the environment variable the catalog names. The key is
// handed down as a plain parameter from here on.
func loadAPIKey(src *config.Source) (string, error) {
	if harvestFlags.apiKeyFile != "" {
		bs, err := os.ReadFile(harvestFlags.apiKeyFile)
		if err != nil {
			return "", fmt.Errorf("read api key file: %w", err)
		}
		return strings.TrimSpace(string(bs)), nil
	}
	if src.APIKeyEnv != "" {
		key := os.Getenv(src.APIKeyEnv)
		if key == "" {
			return "", fmt.Errorf("source %q expects an API key in $%s", src.Name, src.APIKeyEnv)
		}
		return key, nil
	}
	return "", nil
}
