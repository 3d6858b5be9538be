package service

import (
	"context"

	"github.com/avoronov/gotwis/internal/models"
)

// FeedService describes the social-feed operations of the application:
// tweet storage, the follow graph, and timeline assembly. The identity core
// never calls these; they exist so the CLI and REST layers have a stable
// surface to grow into.
type FeedService interface {
	PostTweet(ctx context.Context, userID int64, body string) error
	Follow(ctx context.Context, userID int64, followee string) error
	Unfollow(ctx context.Context, userID int64, followee string) error
	Followers(ctx context.Context, userID int64) ([]string, error)
	Followings(ctx context.Context, userID int64) ([]string, error)
	Timeline(ctx context.Context, userID int64, maxTweets int) ([]models.Tweet, error)
}

// UnimplementedFeed returns models.ErrNotImplemented from every operation.
type UnimplementedFeed struct{}

var _ FeedService = UnimplementedFeed{}

func (UnimplementedFeed) PostTweet(context.Context, int64, string) error {
	return models.ErrNotImplemented
}

func (UnimplementedFeed) Follow(context.Context, int64, string) error {
	return models.ErrNotImplemented
}

func (UnimplementedFeed) Unfollow(context.Context, int64, string) error {
	return models.ErrNotImplemented
}

func (UnimplementedFeed) Followers(context.Context, int64) ([]string, error) {
	return nil, models.ErrNotImplemented
}

func (UnimplementedFeed) Followings(context.Context, int64) ([]string, error) {
	return nil, models.ErrNotImplemented
}

func (UnimplementedFeed) Timeline(context.Context, int64, int) ([]models.Tweet, error) {
	return nil, models.ErrNotImplemented
}
