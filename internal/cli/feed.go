package cli

import (
	"context"
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/avoronov/gotwis/internal/models"
	"github.com/avoronov/gotwis/internal/service"
)

// NewFeedCommands creates the social-feed commands. The feed subsystem is
// not implemented yet; every command authenticates the session and then
// reports that.
func NewFeedCommands(opts *RootOptions) []*cobra.Command {
	post := &cobra.Command{
		Use:   "post <tweet>",
		Short: "Post a tweet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeed(cmd, opts, func(ctx context.Context, feed service.FeedService, userID int64) error {
				return feed.PostTweet(ctx, userID, args[0])
			})
		},
	}

	follow := &cobra.Command{
		Use:   "follow <followee>",
		Short: "Follow a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeed(cmd, opts, func(ctx context.Context, feed service.FeedService, userID int64) error {
				return feed.Follow(ctx, userID, args[0])
			})
		},
	}

	unfollow := &cobra.Command{
		Use:   "unfollow <followee>",
		Short: "Unfollow a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeed(cmd, opts, func(ctx context.Context, feed service.FeedService, userID int64) error {
				return feed.Unfollow(ctx, userID, args[0])
			})
		},
	}

	followers := &cobra.Command{
		Use:   "followers",
		Short: "List followers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeed(cmd, opts, func(ctx context.Context, feed service.FeedService, userID int64) error {
				_, err := feed.Followers(ctx, userID)
				return err
			})
		},
	}

	followings := &cobra.Command{
		Use:   "followings",
		Short: "List followed users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeed(cmd, opts, func(ctx context.Context, feed service.FeedService, userID int64) error {
				_, err := feed.Followings(ctx, userID)
				return err
			})
		},
	}

	timeline := &cobra.Command{
		Use:   "timeline [max-tweets]",
		Short: "Show the timeline",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			maxTweets := -1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return errors.New("timeline {tweet count} or timeline")
				}
				maxTweets = n
			}
			return runFeed(cmd, opts, func(ctx context.Context, feed service.FeedService, userID int64) error {
				_, err := feed.Timeline(ctx, userID, maxTweets)
				return err
			})
		},
	}

	return []*cobra.Command{post, follow, unfollow, followers, followings, timeline}
}

// runFeed authenticates the session and invokes the feed operation.
func runFeed(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, feed service.FeedService, userID int64) error) error {
	secret, err := opts.requireAuth()
	if err != nil {
		return err
	}

	identity, closeStore, err := opts.identity(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	userID, valid, err := identity.ValidateSession(cmd.Context(), secret)
	if err != nil {
		return err
	}
	if !valid {
		return models.ErrUnauthorized
	}

	err = fn(cmd.Context(), service.UnimplementedFeed{}, userID)
	if errors.Is(err, models.ErrNotImplemented) {
		cmd.Println("feed operations are not implemented yet")
		return nil
	}
	return err
}
