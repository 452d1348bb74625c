// Command groupadd creates a community. Groups have no web form, so this is
// how they get into the store.
//
//	groupadd -title "Cats" -slug cats -description "Posts about cats"
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/yatube/yatube/internal/core/domain"
	"github.com/yatube/yatube/internal/infrastructure/db"
	"github.com/yatube/yatube/internal/pkg/config"
	"github.com/yatube/yatube/pkg/logger"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

func main() {
	title := flag.String("title", "", "group title (required)")
	slug := flag.String("slug", "", "URL slug, letters, digits, hyphens and underscores (required)")
	description := flag.String("description", "", "group description")
	flag.Parse()

	if err := run(*title, *slug, *description); err != nil {
		fmt.Fprintln(os.Stderr, "groupadd:", err)
		os.Exit(1)
	}
}

func run(title, slug, description string) error {
	if title == "" || slug == "" {
		return errors.New("-title and -slug are required")
	}
	if len(title) > 200 {
		return errors.New("title is longer than 200 characters")
	}
	if !slugPattern.MatchString(slug) {
		return fmt.Errorf("invalid slug %q", slug)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "groupadd"})

	store, err := db.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	g := &domain.Group{Title: title, Slug: slug, Description: description}
	if err := store.Groups.Create(ctx, g); err != nil {
		if errors.Is(err, domain.ErrGroupExists) {
			return fmt.Errorf("group %q already exists", slug)
		}
		return err
	}

	log.Info().Int64("id", g.ID).Str("slug", g.Slug).Msg("group created")
	return nil
}
