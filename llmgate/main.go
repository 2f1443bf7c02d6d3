package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/manifoldco/promptui"

	"github.com/fpt/go-llmgate/internal/cache"
	"github.com/fpt/go-llmgate/internal/config"
	"github.com/fpt/go-llmgate/internal/service"
	"github.com/fpt/go-llmgate/pkg/adapter"
	"github.com/fpt/go-llmgate/pkg/llm"
	pkgLogger "github.com/fpt/go-llmgate/pkg/logger"
)

// resolveStringFlag returns the non-empty value, preferring short flag over long flag
func resolveStringFlag(shortVal, longVal string) string {
	if shortVal != "" {
		return shortVal
	}
	return longVal
}

func printUsage() {
	fmt.Println("llmgate - provider-agnostic LLM gateway")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  llmgate \"Explain goroutines\"               # One-shot completion (default provider)")
	fmt.Println("  llmgate -p openai \"Explain goroutines\"     # Pick a provider")
	fmt.Println("  llmgate -m gpt-4o \"Explain goroutines\"     # Pick a model")
	fmt.Println("  llmgate -e \"some text to embed\"            # Print the embedding vector")
	fmt.Println("  llmgate -t de \"Hello world\"                # Translate (source auto-detected)")
	fmt.Println("  llmgate -providers                         # List configured providers")
	fmt.Println("  llmgate -models                            # Discover the provider's models")
	fmt.Println("  llmgate -test                              # Interactive connection test")
	fmt.Println()
}

func main() {
	ctx := context.Background()

	var provider = flag.String("p", "", "Provider name (openai, anthropic, gemini, ollama or a configured name)")
	var providerLong = flag.String("provider", "", "Provider name (openai, anthropic, gemini, ollama or a configured name)")
	var model = flag.String("m", "", "Model name to use")
	var modelLong = flag.String("model", "", "Model name to use")
	var settingsPath = flag.String("settings", "", "Path to settings file")
	var embed = flag.Bool("e", false, "Embed the argument text instead of completing it")
	var translate = flag.String("t", "", "Translate the argument text into this language code")
	var listProviders = flag.Bool("providers", false, "List configured providers and exit")
	var listModels = flag.Bool("models", false, "Discover the provider's models and exit")
	var testConn = flag.Bool("test", false, "Interactively test a provider connection and exit")
	var verbose = flag.Bool("v", false, "Enable verbose logging (debug level)")
	var verboseLong = flag.Bool("verbose", false, "Enable verbose logging (debug level)")
	var help = flag.Bool("h", false, "Show this help message")
	var helpLong = flag.Bool("help", false, "Show this help message")

	flag.Usage = func() {
		printUsage()
		fmt.Println("Flags:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *help || *helpLong {
		flag.Usage()
		return
	}

	resolvedProvider := resolveStringFlag(*provider, *providerLong)
	resolvedModel := resolveStringFlag(*model, *modelLong)
	resolvedVerbose := *verbose || *verboseLong

	settings, err := config.LoadSettings(*settingsPath)
	if err != nil {
		fmt.Printf("Warning: failed to load settings: %v\n", err)
		settings = config.GetDefaultSettings()
	}
	if err := config.ValidateSettings(settings); err != nil {
		fmt.Printf("Error: invalid settings: %v\n", err)
		os.Exit(1)
	}

	logLevel := settings.LogLevel
	if resolvedVerbose {
		logLevel = "debug"
	}
	pkgLogger.SetGlobalLogLevel(pkgLogger.LogLevel(logLevel))

	var registryOpts []adapter.Option
	if settings.CircuitBreaker {
		registryOpts = append(registryOpts, adapter.WithCircuitBreaker())
	}
	registry := adapter.NewRegistry(settings.Providers, registryOpts...)

	switch {
	case *listProviders:
		runProviderList(registry)
		return
	case *testConn:
		runConnectionTest(ctx, registry)
		return
	case *listModels:
		runModelDiscovery(ctx, registry, settings, resolvedProvider)
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	text := strings.Join(args, " ")

	cacheManager, err := cache.NewManager(settings.Cache.Size)
	if err != nil {
		fmt.Printf("Error: failed to initialize cache: %v\n", err)
		os.Exit(1)
	}

	accounting := service.NewMemoryAccounting(settings.Configurations)
	manager := service.NewManager(registry, settings, accounting)

	switch {
	case *embed:
		runEmbed(ctx, manager, cacheManager, settings, text, resolvedProvider, resolvedModel)
	case *translate != "":
		runTranslate(ctx, manager, text, *translate, resolvedProvider, resolvedModel)
	default:
		runComplete(ctx, manager, text, resolvedProvider, resolvedModel)
	}
}

func runComplete(ctx context.Context, manager *service.Manager, prompt, provider, model string) {
	svc := service.NewCompletionService(manager)
	resp, err := svc.Complete(ctx, prompt, llm.ChatOptions{Provider: provider, Model: model})
	if err != nil {
		fatal(err)
	}
	fmt.Println(resp.Content)
	if resp.Truncated() {
		fmt.Fprintln(os.Stderr, "(response truncated by token limit)")
	}
}

func runEmbed(ctx context.Context, manager *service.Manager, cacheManager *cache.Manager, settings *config.Settings, text, provider, model string) {
	ttl := time.Duration(settings.Cache.TTLSeconds) * time.Second
	svc := service.NewEmbeddingService(manager, cacheManager, ttl)
	vector, err := svc.Embed(ctx, text, llm.EmbeddingOptions{Provider: provider, Model: model})
	if err != nil {
		fatal(err)
	}
	fmt.Printf("dimensions: %d\n", len(vector))
	for i, v := range vector {
		if i == 8 {
			fmt.Print("...")
			break
		}
		fmt.Printf("%.6f ", v)
	}
	fmt.Println()
}

func runTranslate(ctx context.Context, manager *service.Manager, text, targetLang, provider, model string) {
	svc := service.NewTranslationService(manager)
	result, err := svc.Translate(ctx, text, "", targetLang, llm.TranslationOptions{Provider: provider, Model: model})
	if err != nil {
		fatal(err)
	}
	fmt.Println(result.TranslatedText)
	fmt.Fprintf(os.Stderr, "(%s -> %s, confidence %.1f)\n", result.SourceLanguage, result.TargetLanguage, result.Confidence)
}

func runProviderList(registry *adapter.Registry) {
	defaultName := registry.DefaultProviderName()
	for _, status := range registry.ProviderList() {
		marker := " "
		if status.Provider.Name == defaultName {
			marker = "*"
		}
		state := "available"
		if !status.Available {
			state = status.Reason
		}
		fmt.Printf("%s %-12s %-10s %s\n", marker, status.Provider.Name, status.Provider.Type, state)
	}
}

func runModelDiscovery(ctx context.Context, registry *adapter.Registry, settings *config.Settings, providerName string) {
	if providerName == "" {
		providerName = registry.DefaultProviderName()
	}
	var target *llm.Provider
	for i := range settings.Providers {
		if settings.Providers[i].Name == providerName {
			target = &settings.Providers[i]
			break
		}
	}
	if target == nil {
		fmt.Printf("Error: unknown provider: %s\n", providerName)
		os.Exit(1)
	}

	discovery := adapter.NewDiscovery(registry)
	models, err := discovery.Discover(ctx, *target)
	if err != nil {
		fatal(err)
	}
	for _, m := range models {
		caps := make([]string, 0, len(m.Capabilities))
		for _, c := range m.Capabilities {
			caps = append(caps, string(c))
		}
		fmt.Printf("%-40s %s\n", m.ModelID, strings.Join(caps, ","))
	}
}

// runConnectionTest shows an interactive provider selector and probes the
// chosen vendor API.
func runConnectionTest(ctx context.Context, registry *adapter.Registry) {
	statuses := registry.ProviderList()
	if len(statuses) == 0 {
		fmt.Println("No providers configured.")
		os.Exit(1)
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "▸ {{ .Provider.Name | cyan }} ({{ .Provider.Type | faint }})",
		Inactive: "  {{ .Provider.Name | cyan }} ({{ .Provider.Type | faint }})",
		Selected: "{{ .Provider.Name | cyan }}",
	}

	prompt := promptui.Select{
		Label:     "Select provider to test",
		Items:     statuses,
		Templates: templates,
	}
	index, _, err := prompt.Run()
	if err != nil {
		fatal(err)
	}

	chosen := statuses[index]
	result := registry.TestProvider(ctx, chosen.Provider.Name)
	if result.Success {
		fmt.Printf("OK: %s\n", result.Message)
		return
	}
	fmt.Printf("FAILED: %s\n", result.Message)
	os.Exit(1)
}

func fatal(err error) {
	switch {
	case llm.IsValidationError(err):
		fmt.Fprintf(os.Stderr, "Invalid input: %v\n", err)
	case llm.IsQuotaError(err):
		fmt.Fprintf(os.Stderr, "Quota exceeded: %v\n", err)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}
