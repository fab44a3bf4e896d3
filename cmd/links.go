package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/tonelink/internal/formatter"
	"github.com/desertthunder/tonelink/internal/models"
	"github.com/desertthunder/tonelink/internal/repositories"
	"github.com/desertthunder/tonelink/internal/shared"
	"github.com/urfave/cli/v3"
)

// LinksList prints a profile's links in display order.
func (r *Runner) LinksList(ctx context.Context, cmd *cli.Command) error {
	config := r.resolveConfig(cmd)

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	profile, err := resolveProfile(repositories.NewProfileRepository(db), cmd.String("profile"))
	if err != nil {
		return err
	}

	links, err := repositories.NewLinkRepository(db).ListByProfile(profile.ID())
	if err != nil {
		return fmt.Errorf("failed to list links: %w", err)
	}

	if cmd.Bool("json") {
		out := make([]map[string]any, 0, len(links))
		for _, link := range links {
			out = append(out, map[string]any{
				"id":        link.ID(),
				"platform":  link.Platform(),
				"url":       link.URL(),
				"position":  link.Position(),
				"followers": link.Followers(),
			})
		}
		return r.writeJSON(out, cmd.Bool("pretty"))
	}

	r.writePlain("Links for @%s:\n\n", profile.Username())
	for _, link := range links {
		r.writePlain("%d. [%s] %s\n", link.Position()+1, link.Platform(), link.URL())
		r.writePlain("   ID: %s\n", link.ID())
		if link.Followers() > 0 {
			r.writePlain("   Followers: %s\n", formatter.FormatFollowers(link.Followers()))
		}
		r.writePlain("\n")
	}

	return nil
}

// LinksAdd appends a link to the end of a profile's list.
func (r *Runner) LinksAdd(ctx context.Context, cmd *cli.Command) error {
	platform := cmd.StringArg("platform")
	rawURL := cmd.StringArg("url")

	if platform == "" || rawURL == "" {
		return fmt.Errorf("%w: platform and url arguments are required", shared.ErrMissingArgument)
	}

	config := r.resolveConfig(cmd)

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	profile, err := resolveProfile(repositories.NewProfileRepository(db), cmd.String("profile"))
	if err != nil {
		return err
	}

	link := models.NewLink(0, profile.ID(), platform, rawURL)
	if err := link.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	if err := repositories.NewLinkRepository(db).Create(link); err != nil {
		return fmt.Errorf("failed to create link: %w", err)
	}

	r.writePlain("✓ Link added at position %d\n", link.Position()+1)
	r.writePlain("  ID: %s\n", link.ID())
	return nil
}

// LinksRemove soft-deletes a link by ID.
func (r *Runner) LinksRemove(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: a link ID is required", shared.ErrMissingArgument)
	}

	config := r.resolveConfig(cmd)

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repositories.NewLinkRepository(db).Delete(id); err != nil {
		return err
	}

	r.writePlain("✓ Link %s removed\n", id)
	return nil
}

// LinksReorder persists a new display order for a profile's links.
//
// The --order flag must name every live link exactly once.
func (r *Runner) LinksReorder(ctx context.Context, cmd *cli.Command) error {
	ids := []string{}
	for _, id := range strings.Split(cmd.String("order"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: --order must list link IDs", shared.ErrInvalidArgument)
	}

	config := r.resolveConfig(cmd)

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	profile, err := resolveProfile(repositories.NewProfileRepository(db), cmd.String("profile"))
	if err != nil {
		return err
	}

	if err := repositories.NewLinkRepository(db).Reorder(profile.ID(), ids); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	r.writePlain("✓ Saved new order for %d links\n", len(ids))
	return nil
}
