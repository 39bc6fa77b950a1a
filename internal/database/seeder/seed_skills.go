package seeder

import (
	"context"
	"fmt"

	"skill-swap/internal/database"
)

type SkillsSeeder struct{}

func (SkillsSeeder) Name() string { return "skills" }

func (SkillsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "skills", "id", "name", "description", "created_at"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	items := []struct {
		Name        string
		Description string
	}{
		{Name: "Guitar", Description: "Acoustic and electric guitar playing"},
		{Name: "Piano", Description: "Piano and keyboard performance"},
		{Name: "Photography", Description: "Digital photography and composition"},
		{Name: "Cooking", Description: "Home cooking and meal preparation"},
		{Name: "Spanish", Description: "Spanish language conversation"},
		{Name: "French", Description: "French language conversation"},
		{Name: "Web Development", Description: "Building websites and web apps"},
		{Name: "Graphic Design", Description: "Visual design and illustration"},
		{Name: "Yoga", Description: "Yoga practice and instruction"},
		{Name: "Public Speaking", Description: "Presentation and speech delivery"},
	}

	for _, it := range items {
		affected, err := tx.Exec(
			ctx,
			`INSERT INTO skills (id, name, description) VALUES (gen_random_uuid(), $1, $2) ON CONFLICT (name) DO NOTHING`,
			it.Name,
			it.Description,
		)
		if err != nil {
			return err
		}
		_ = affected
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
