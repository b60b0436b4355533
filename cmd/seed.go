package main

import (
	"context"
	"time"

	mongoRepo "github.com/Abdurahmanit/GroupProject/bookreview-service/internal/adapter/repository/mongodb"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/seed"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace all data with the sample catalogue",
	Long: `seed drops the users, books and reviews collections and loads three
users (password "` + seed.DefaultPassword + `"), six books and seven reviews.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().Duration("timeout", time.Minute, "Time allowed for the whole run")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	a, err := bootstrap(ctx)
	defer a.close()
	if err != nil {
		a.log.Error("Startup failed", zap.Error(err))
		return err
	}
	log := a.log.Named("seed")

	if err := mongoRepo.DropCollections(ctx, a.db); err != nil {
		log.Error("Failed to drop collections", zap.Error(err))
		return err
	}
	log.Info("Data cleared")

	if err := a.openRepositories(); err != nil {
		log.Error("Failed to initialize repositories", zap.Error(err))
		return err
	}
	books, reviews, _ := a.usecases(nil)

	res, err := seed.Run(ctx, a.users, books, reviews, log)
	if err != nil {
		log.Error("Seeding failed", zap.Error(err))
		return err
	}
	log.Info("Data seeded successfully",
		zap.Int("users", res.Users),
		zap.Int("books", res.Books),
		zap.Int("reviews", res.Reviews),
	)
	return nil
}
