package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ByLCY/safescan/config"
	"github.com/ByLCY/safescan/encode"
	"github.com/ByLCY/safescan/export"
	"github.com/ByLCY/safescan/history"
	"github.com/ByLCY/safescan/layout"
	"github.com/ByLCY/safescan/logger"
	"github.com/ByLCY/safescan/preview"
	"github.com/ByLCY/safescan/studio"
	"github.com/ByLCY/safescan/suggest"
	"github.com/ByLCY/safescan/symbology"
	"github.com/ByLCY/safescan/vcard"
)

const usage = `usage: safescan <command> [flags]

commands:
  render    encode a payload and export png/jpeg/svg/pdf artifacts
  preview   write the 320px SVG preview for a payload
  studio    interactive session: edit fields on stdin, preview per change
  suggest   ask the model for title/description/color hints for a URL
  history   list or delete saved generations
  vcard     build a vCard payload from contact flags
`

func main() {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	settings, err := loadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load settings: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(settings.GetBool("debug"))
	defer log.Sync()

	switch os.Args[1] {
	case "render":
		err = runRender(os.Args[2:], settings, log)
	case "preview":
		err = runPreview(os.Args[2:], settings, log)
	case "studio":
		err = runStudio(os.Args[2:], settings, log)
	case "suggest":
		err = runSuggest(os.Args[2:], settings, log)
	case "history":
		err = runHistory(os.Args[2:], settings, log)
	case "vcard":
		err = runVCard(os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

// loadSettings reads the optional safescan.yaml next to the binary or in
// the working directory. Every key has a default so the file may be
// absent.
func loadSettings() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigName("safescan")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".safescan"))
	}

	v.SetDefault("debug", false)
	v.SetDefault("output_dir", "output")
	v.SetDefault("history_path", filepath.Join("output", "history.db"))
	v.SetDefault("filename_template", export.DefaultFilenameTemplate)

	v.SetEnvPrefix("SAFESCAN")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	return v, nil
}

// configFlags registers the shared Configuration flags on fs and returns
// a builder that resolves them into a validated value.
func configFlags(fs *flag.FlagSet) func() (config.Configuration, error) {
	content := fs.String("content", "", "payload to encode")
	symName := fs.String("symbology", "qr", "symbology (qr, ean13, code128, code39, upca, itf14, msi, pharmacode)")
	resolution := fs.Int("resolution", 0, "export canvas side in pixels (512-2048)")
	scale := fs.Float64("scale", 0, "symbol group width as a fraction of the canvas (0.05-1.0)")
	fg := fs.String("fg", "", "ink color, hex")
	bg := fs.String("bg", "", "safe-zone fill color, hex")
	ec := fs.String("ec", "", "QR error correction level (L, M, Q, H)")
	title := fs.String("title", "", "heading text above the symbol")
	bgImage := fs.String("bg-image", "", "background image path or URL")
	bgOpacity := fs.Float64("bg-opacity", 1.0, "background image opacity (0-1)")
	bgFit := fs.String("bg-fit", "cover", "background fit: cover or contain")
	bgZoom := fs.Float64("bg-zoom", 1.0, "background zoom factor")

	return func() (config.Configuration, error) {
		cfg := config.New()
		cfg.Content = *content
		sym, err := symbology.Parse(*symName)
		if err != nil {
			return cfg, err
		}
		cfg.Symbology = sym
		if *resolution != 0 {
			cfg.Resolution = *resolution
		}
		if *scale != 0 {
			cfg.SymbolScale = *scale
		}
		if *fg != "" {
			cfg.Foreground = *fg
		}
		if *bg != "" {
			cfg.Background = *bg
		}
		if *ec != "" {
			cfg.ECLevel = *ec
		}
		cfg.Title.Text = *title
		if *bgImage != "" {
			cfg.BackgroundImage = &config.BackgroundImage{
				Source:  *bgImage,
				Opacity: *bgOpacity,
				Fit:     config.Fit(*bgFit),
				Zoom:    *bgZoom,
			}
		}
		cfg = cfg.Clamp()
		return cfg, cfg.Validate()
	}
}

func runRender(args []string, settings *viper.Viper, log *zap.SugaredLogger) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	build := configFlags(fs)
	format := fs.String("format", "png", "export format (png, jpeg, svg, pdf)")
	outDir := fs.String("out", settings.GetString("output_dir"), "output directory")
	debugPath := fs.String("debug", "", "layout debug JSON output path")
	save := fs.Bool("save", false, "record the configuration in history")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := build()
	if err != nil {
		return err
	}
	f, err := export.ParseFormat(*format)
	if err != nil {
		return err
	}

	background := loadBackground(cfg, log)

	pipeline := export.New(nil)
	data, err := pipeline.Export(cfg, f, background)
	if err != nil {
		return err
	}

	if *debugPath != "" {
		geo := layout.Compute(cfg, float64(cfg.Resolution))
		if err := layout.WriteDebugJSON(geo, *debugPath); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	name := export.Filename(settings.GetString("filename_template"), cfg, f, time.Now())
	path := filepath.Join(*outDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	log.Infow("exported", "path", path, "bytes", len(data))

	if *save {
		store, err := history.Open(settings.GetString("history_path"), log)
		if err != nil {
			log.Warnw("history unavailable, artifact not recorded", "error", err)
			return nil
		}
		defer store.Close()
		item, err := store.Save(cfg)
		if err != nil {
			return err
		}
		log.Infow("saved to history", "id", item.ID)
	}
	return nil
}

func runPreview(args []string, settings *viper.Viper, log *zap.SugaredLogger) error {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	build := configFlags(fs)
	out := fs.String("out", filepath.Join(settings.GetString("output_dir"), "preview.svg"), "preview SVG path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := build()
	if err != nil {
		return err
	}
	symbol, err := encode.Encode(cfg.Content, cfg.Symbology, cfg.ECLevel)
	if err != nil {
		// preview shows the placeholder for unencodable content
		log.Warnw("content not encodable, previewing placeholder", "error", err)
		symbol = nil
	}

	background := loadBackground(cfg, log)
	markup, err := preview.New(nil).Preview(cfg, symbol, background)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(*out, markup, 0o644); err != nil {
		return fmt.Errorf("write preview: %w", err)
	}
	log.Infow("preview written", "path", *out)
	return nil
}

// runStudio drives a studio.Session from stdin. Each line is either
// `field=value` (content, symbology, title, fg, bg, scale, resolution)
// or `quit`; every accepted edit rewrites the preview file.
func runStudio(args []string, settings *viper.Viper, log *zap.SugaredLogger) error {
	fs := flag.NewFlagSet("studio", flag.ExitOnError)
	build := configFlags(fs)
	out := fs.String("out", filepath.Join(settings.GetString("output_dir"), "preview.svg"), "live preview SVG path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := build()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session := studio.NewSession(nil, log)
	go session.Run(ctx)
	go func() {
		for frame := range session.Frames() {
			if frame.Err != nil {
				log.Warnw("preview failed", "error", frame.Err)
				continue
			}
			if err := os.WriteFile(*out, frame.SVG, 0o644); err != nil {
				log.Warnw("write preview", "error", err)
			}
		}
	}()

	session.Update(cfg)
	fmt.Printf("studio: edit with field=value (content, symbology, title, fg, bg, scale, resolution, bg-image), quit to exit\n")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			fmt.Println("expected field=value")
			continue
		}
		if err := applyEdit(&cfg, strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			fmt.Printf("rejected: %v\n", err)
			continue
		}
		cfg = cfg.Clamp()
		session.Update(cfg)
	}
	return scanner.Err()
}

func applyEdit(cfg *config.Configuration, key, value string) error {
	switch key {
	case "content":
		cfg.Content = value
	case "symbology":
		sym, err := symbology.Parse(value)
		if err != nil {
			return err
		}
		cfg.Symbology = sym
	case "title":
		cfg.Title.Text = value
	case "fg":
		cfg.Foreground = value
	case "bg":
		cfg.Background = value
	case "scale":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		cfg.SymbolScale = f
	case "resolution":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Resolution = n
	case "bg-image":
		if value == "" {
			cfg.BackgroundImage = nil
		} else if cfg.BackgroundImage == nil {
			cfg.BackgroundImage = &config.BackgroundImage{Source: value, Opacity: 1.0, Fit: config.FitCover, Zoom: 1.0}
		} else {
			cfg.BackgroundImage.Source = value
		}
	default:
		return fmt.Errorf("unknown field %q", key)
	}
	return nil
}

func runSuggest(args []string, settings *viper.Viper, log *zap.SugaredLogger) error {
	fs := flag.NewFlagSet("suggest", flag.ExitOnError)
	url := fs.String("url", "", "URL to analyze")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *url == "" {
		return fmt.Errorf("missing -url")
	}

	client := suggest.NewClient(os.Getenv("GEMINI_API_KEY"), log)
	s := client.Suggest(context.Background(), *url)
	return json.NewEncoder(os.Stdout).Encode(s)
}

func runHistory(args []string, settings *viper.Viper, log *zap.SugaredLogger) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	deleteID := fs.String("delete", "", "delete the item with this id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := history.Open(settings.GetString("history_path"), log)
	if err != nil {
		// a missing or unreadable store is an empty history, not a failure
		log.Warnw("history unavailable", "error", err)
		return nil
	}
	defer store.Close()

	if *deleteID != "" {
		return store.Delete(*deleteID)
	}

	items, err := store.List()
	if err != nil {
		return err
	}
	for _, item := range items {
		fmt.Printf("%s  %s  %-10s  %s\n",
			item.ID,
			item.CreatedAt.Format("2006-01-02 15:04:05"),
			item.Config.Symbology,
			item.Config.Content,
		)
	}
	return nil
}

func runVCard(args []string) error {
	fs := flag.NewFlagSet("vcard", flag.ExitOnError)
	var c vcard.Contact
	fs.StringVar(&c.FirstName, "first", "", "first name")
	fs.StringVar(&c.LastName, "last", "", "last name")
	fs.StringVar(&c.Organization, "org", "", "organization")
	fs.StringVar(&c.Title, "title", "", "job title")
	fs.StringVar(&c.Phone, "phone", "", "phone number")
	fs.StringVar(&c.Email, "email", "", "email address")
	fs.StringVar(&c.URL, "url", "", "website")
	fs.StringVar(&c.Street, "street", "", "street address")
	fs.StringVar(&c.City, "city", "", "city")
	fs.StringVar(&c.Region, "region", "", "state or region")
	fs.StringVar(&c.PostalCode, "zip", "", "postal code")
	fs.StringVar(&c.Country, "country", "", "country")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if c.FullName() == "" {
		return fmt.Errorf("a contact needs at least -first or -last")
	}
	fmt.Print(vcard.Generate(c))
	return nil
}

func loadBackground(cfg config.Configuration, log *zap.SugaredLogger) image.Image {
	if cfg.BackgroundImage == nil || cfg.BackgroundImage.Source == "" {
		return nil
	}
	loaded, err := studio.LoadImage(context.Background(), cfg.BackgroundImage.Source)
	if err != nil {
		log.Warnw("background image unavailable, composing without it",
			"source", cfg.BackgroundImage.Source, "error", err)
		return nil
	}
	return loaded
}
