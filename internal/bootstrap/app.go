package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/valenjeb/wp-cpt/internal/config"
	"github.com/valenjeb/wp-cpt/internal/database"
	"github.com/valenjeb/wp-cpt/internal/domain"
	"github.com/valenjeb/wp-cpt/internal/handler"
	"github.com/valenjeb/wp-cpt/internal/logger"
	"github.com/valenjeb/wp-cpt/internal/platform/memory"
	"github.com/valenjeb/wp-cpt/internal/repository"
	"github.com/valenjeb/wp-cpt/internal/service"
	"github.com/valenjeb/wp-cpt/pkg/cpt"
)

type App struct {
	Echo *echo.Echo
	Host *memory.Host
	DB   *sql.DB
}

func NewApp() *App {
	return &App{
		Echo: echo.New(),
		Host: memory.New(),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}

	// Initialize logging
	logger.InitLogging(config.DefaultEnvConfig.LOG_FILE_PATH)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	// Pick the stores: Postgres when configured, memory otherwise.
	var repo domain.EntryRepository
	var terms domain.TermRepository
	if config.DefaultEnvConfig.DB_HOST != "" {
		dbConfig := database.Config{
			Host:            config.DefaultEnvConfig.DB_HOST,
			Port:            config.DefaultEnvConfig.DB_PORT,
			User:            config.DefaultEnvConfig.DB_USER,
			Password:        config.DefaultEnvConfig.DB_PASSWORD,
			DBName:          config.DefaultEnvConfig.DB_NAME,
			SSLMode:         config.DefaultEnvConfig.DB_SSL_MODE,
			MaxOpenConns:    config.DefaultEnvConfig.DB_MAX_OPEN_CONNS,
			MaxIdleConns:    config.DefaultEnvConfig.DB_MAX_IDLE_CONNS,
			ConnMaxLifetime: config.DefaultEnvConfig.DB_CONN_MAX_LIFETIME,
		}
		db, err := database.NewPostgresDB(ctx, dbConfig)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		a.DB = db
		repo = repository.NewPostgresEntryRepository(db)
		terms = repository.NewPostgresTermRepository(db)
	} else {
		memRepo := repository.NewMemoryEntryRepository()
		memTerms := repository.NewMemoryTermRepository()
		if err := seedDemoEntries(ctx, memRepo); err != nil {
			return fmt.Errorf("failed to seed demo entries: %w", err)
		}
		if err := seedDemoTerms(ctx, memTerms); err != nil {
			return fmt.Errorf("failed to seed demo terms: %w", err)
		}
		repo = memRepo
		terms = memTerms
		logger.InfoLog(ctx, "No DB_HOST configured, using in-memory stores")
	}

	// Register the content model: definitions file when configured,
	// built-in demo model otherwise. Registration is deferred until Init.
	if path := config.DefaultEnvConfig.DEFINITIONS_PATH; path != "" {
		defs, err := cpt.LoadDefinitions(path)
		if err != nil {
			return fmt.Errorf("failed to load definitions from %s: %w", path, err)
		}
		defs.Schedule(a.Host)
		logger.InfoLog(ctx, "Scheduled content model from %s", path)
	} else {
		registerDemoModel(a.Host, repo, terms)
	}

	if err := a.Host.Init(); err != nil {
		return fmt.Errorf("failed to register content model: %w", err)
	}
	logger.InfoLog(ctx, "Registered post types: %v", a.Host.PostTypes())

	adminSvc := service.NewAdminService(a.Host, repo, terms)
	adminHandler := handler.NewAdminHandler(adminSvc)

	// Register Middlewares
	a.RegisterMiddlewares()

	// Register Routes
	a.RegisterRoutes(adminHandler)

	return nil
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
}

func (a *App) RegisterRoutes(adminHandler *handler.AdminHandler) {
	adminGroup := a.Echo.Group("/admin")
	adminGroup.GET("/types", adminHandler.ListScreensHandler)
	adminGroup.GET("/types/:type/columns", adminHandler.ListColumnsHandler)
	adminGroup.GET("/types/:type/entries", adminHandler.ListEntriesHandler)
	adminGroup.GET("/types/:type/export", adminHandler.ExportEntriesHandler)
	adminGroup.GET("/taxonomies", adminHandler.ListTaxonomiesHandler)
	adminGroup.GET("/taxonomies/:taxonomy/terms", adminHandler.ListTermsHandler)
}

func (a *App) Run() error {
	if a.DB != nil {
		defer a.DB.Close()
	}
	return a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
}

// registerDemoModel schedules a small sample content model so the admin
// endpoints have something to serve out of the box.
func registerDemoModel(host *memory.Host, repo domain.EntryRepository, terms domain.TermRepository) {
	metaCell := func(w io.Writer, column string, postID int64) {
		entry, err := repo.GetByID(context.Background(), postID)
		if err != nil {
			return
		}
		fmt.Fprint(w, entry.Meta[column])
	}

	genre := cpt.NewTaxonomy("genre").
		Hierarchical(true).
		ShowAdminColumn(true).
		ForTypes("book")
	genre.Columns().
		AddPopulated(cpt.ColumnDef{ID: "entries", Label: "Entries"}, func(content, column string, termID int64) string {
			term, err := terms.GetTermByID(context.Background(), termID)
			if err != nil {
				return content
			}
			return fmt.Sprintf("%d entries", term.Count)
		})

	book := cpt.NewPostType("book").
		Public(true).
		HasArchive(true).
		MenuIcon("dashicons-book").
		Supports("title", "editor", "thumbnail").
		Taxonomies("genre")
	book.Columns().
		Add(cpt.ColumnDef{ID: "price", Label: "Price"}).
		SortableNumeric("price", "price").
		Populate("price", metaCell)

	cpt.Schedule(host, genre, book)
}

func seedDemoEntries(ctx context.Context, repo domain.EntryRepository) error {
	entries := []domain.Entry{
		{Type: "book", Title: "The Long Tide", Status: "publish", Author: "mira", Meta: map[string]string{"price": "18.00"}, CreatedAt: time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)},
		{Type: "book", Title: "Glass Houses", Status: "publish", Author: "owen", Meta: map[string]string{"price": "9.99"}, CreatedAt: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)},
		{Type: "book", Title: "Notes From Nowhere", Status: "draft", Author: "mira", Meta: map[string]string{"price": "27.50"}, CreatedAt: time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)},
	}
	for i := range entries {
		if err := repo.Create(ctx, &entries[i]); err != nil {
			return err
		}
	}
	return nil
}

func seedDemoTerms(ctx context.Context, terms domain.TermRepository) error {
	seed := []domain.Term{
		{Taxonomy: "genre", Name: "Fiction", Slug: "fiction", Count: 2},
		{Taxonomy: "genre", Name: "Essays", Slug: "essays", Count: 1},
	}
	for i := range seed {
		if err := terms.CreateTerm(ctx, &seed[i]); err != nil {
			return err
		}
	}
	return nil
}
