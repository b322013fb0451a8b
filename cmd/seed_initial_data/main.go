package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"dailydose/cmd/seed_initial_data/internal/seedmodels"
	"dailydose/internal/config"
	"dailydose/internal/database"
	"dailydose/internal/domain"
	"dailydose/internal/logger"
	"dailydose/internal/repository"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const seedFilePath = "configs/seed_data/initial_pathway.json"

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	log.Info("Starting initial data seeding process...")
	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		log.Fatal("Failed to connect to Oracle database", zap.Error(err))
	}
	defer db.Close()
	log.Info("Successfully connected to Oracle database.")

	log.Info("Loading seed data from file", zap.String("path", seedFilePath))
	byteValue, err := os.ReadFile(seedFilePath)
	if err != nil {
		log.Fatal("Failed to read seed file", zap.String("path", seedFilePath), zap.Error(err))
	}

	var seed seedmodels.SeedFile
	if err := json.Unmarshal(byteValue, &seed); err != nil {
		log.Fatal("Failed to unmarshal seed data", zap.Error(err))
	}
	log.Info("Successfully unmarshalled seed data",
		zap.Int("themes", len(seed.Themes)),
		zap.Int("templates", len(seed.Templates)),
		zap.Int("tags", len(seed.Tags)))

	for _, theme := range seed.Themes {
		if err := seedThemeData(ctx, db, log, theme); err != nil {
			log.Error("Error seeding theme", zap.String("theme", theme.Name), zap.Error(err))
		}
	}

	templateRepo := repository.NewTemplateDatabaseAdapter(db)
	for _, tpl := range seed.Templates {
		template := &domain.PromptTemplate{Name: tpl.Name, Body: tpl.Body}
		if err := templateRepo.SaveTemplate(ctx, template); err != nil {
			log.Error("Error seeding prompt template", zap.String("template", tpl.Name), zap.Error(err))
			continue
		}
		log.Info("Seeded prompt template", zap.String("template", tpl.Name), zap.String("id", template.ID))
	}

	tagRepo := repository.NewTagDatabaseAdapter(db)
	for _, name := range seed.Tags {
		tag := &domain.Tag{Name: name}
		if err := tagRepo.SaveTag(ctx, tag); err != nil {
			log.Error("Error seeding tag", zap.String("tag", name), zap.Error(err))
		}
	}

	log.Info("Initial data seeding process completed.")
}

func seedThemeData(ctx context.Context, db *sqlx.DB, log *zap.Logger, seedTheme seedmodels.SeedTheme) error {
	pathwayRepo := repository.NewPathwayDatabaseAdapter(db)

	theme := &domain.Theme{Name: seedTheme.Name}
	if err := pathwayRepo.SaveTheme(ctx, theme); err != nil {
		return fmt.Errorf("failed to save theme %s: %w", seedTheme.Name, err)
	}
	log.Info("Seeded theme", zap.String("theme", theme.Name), zap.String("id", theme.ID))

	for i, seedCategory := range seedTheme.Categories {
		category := &domain.Category{
			ThemeID:  theme.ID,
			Name:     seedCategory.Name,
			Position: i,
		}
		if err := pathwayRepo.SaveCategory(ctx, category); err != nil {
			return fmt.Errorf("failed to save category %s: %w", seedCategory.Name, err)
		}

		for j, subsectionName := range seedCategory.Subsections {
			subsection := &domain.Subsection{
				CategoryID: category.ID,
				Name:       subsectionName,
				Position:   j,
			}
			if err := pathwayRepo.SaveSubsection(ctx, subsection); err != nil {
				return fmt.Errorf("failed to save subsection %s: %w", subsectionName, err)
			}
		}
		log.Info("Seeded category",
			zap.String("category", category.Name),
			zap.Int("subsections", len(seedCategory.Subsections)))
	}

	return nil
}
