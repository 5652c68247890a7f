// Package posts manages the editorial blog posts and their sponsors.
package posts

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qazuor/hospeda-sub009/internal/crud"
	"github.com/qazuor/hospeda-sub009/internal/shared"
)

// Post is an editorial article, optionally tied to a destination.
type Post struct {
	crud.Lifecycle
	DestinationID *uuid.UUID      `json:"destination_id,omitempty" db:"destination_id"`
	Slug          string          `json:"slug" db:"slug"`
	Title         string          `json:"title" db:"title"`
	Category      string          `json:"category" db:"category"`
	Summary       string          `json:"summary" db:"summary"`
	Body          string          `json:"body" db:"body"`
	Visibility    crud.Visibility `json:"visibility" db:"visibility"`
}

// CreateInput is the payload accepted when creating a post.
type CreateInput struct {
	DestinationID *uuid.UUID      `json:"destination_id"`
	Title         string          `json:"title" validate:"required,min=2,max=200"`
	Category      string          `json:"category" validate:"required,oneof=NEWS GUIDE REVIEW INTERVIEW PROMO"`
	Summary       string          `json:"summary" validate:"required,min=10,max=300"`
	Body          string          `json:"body" validate:"required,min=10"`
	Visibility    crud.Visibility `json:"visibility" validate:"omitempty,oneof=PUBLIC PRIVATE"`
}

// UpdateInput is the partial payload accepted when patching a post.
type UpdateInput struct {
	Title    *string `json:"title" validate:"omitempty,min=2,max=200"`
	Category *string `json:"category" validate:"omitempty,oneof=NEWS GUIDE REVIEW INTERVIEW PROMO"`
	Summary  *string `json:"summary" validate:"omitempty,min=10,max=300"`
	Body     *string `json:"body" validate:"omitempty,min=10"`
}

func newPost(actor shared.Actor, now time.Time, in CreateInput) (Post, error) {
	visibility := in.Visibility
	if visibility == "" {
		visibility = crud.VisibilityPrivate
	}
	return Post{
		Lifecycle:     crud.NewLifecycle(actor, now),
		DestinationID: in.DestinationID,
		Title:         in.Title,
		Category:      in.Category,
		Summary:       in.Summary,
		Body:          in.Body,
		Visibility:    visibility,
	}, nil
}

func postPatch(in UpdateInput) crud.Filter {
	patch := crud.Filter{}
	if in.Title != nil {
		patch["title"] = *in.Title
	}
	if in.Category != nil {
		patch["category"] = *in.Category
	}
	if in.Summary != nil {
		patch["summary"] = *in.Summary
	}
	if in.Body != nil {
		patch["body"] = *in.Body
	}
	return patch
}

var postColumns = []string{
	"id", "created_at", "created_by_id", "updated_at", "updated_by_id",
	"deleted_at", "deleted_by_id",
	"destination_id", "slug", "title", "category", "summary", "body", "visibility",
}

func postValues(p *Post) crud.Filter {
	return crud.Filter{
		"id":             p.ID,
		"created_at":     p.CreatedAt,
		"created_by_id":  p.CreatedByID,
		"updated_at":     p.UpdatedAt,
		"updated_by_id":  p.UpdatedByID,
		"destination_id": p.DestinationID,
		"slug":           p.Slug,
		"title":          p.Title,
		"category":       p.Category,
		"summary":        p.Summary,
		"body":           p.Body,
		"visibility":     p.Visibility,
	}
}

// NewPostModel builds the Postgres persistence model for posts.
func NewPostModel(pool *pgxpool.Pool) *crud.PgModel[Post] {
	return crud.NewPgModel(pool, crud.PgConfig[Post]{
		Table:         "posts",
		Columns:       postColumns,
		SearchColumns: []string{"title", "summary"},
		Values:        postValues,
	})
}

// PostSponsor records a paid sponsorship attached to one post.
type PostSponsor struct {
	crud.Lifecycle
	PostID   uuid.UUID `json:"post_id" db:"post_id"`
	ClientID uuid.UUID `json:"client_id" db:"client_id"`
	Message  string    `json:"message" db:"message"`
	Amount   int64     `json:"amount" db:"amount"`
	Currency string    `json:"currency" db:"currency"`
}

// SponsorCreateInput is the payload accepted when attaching a sponsor.
type SponsorCreateInput struct {
	PostID   uuid.UUID `json:"post_id" validate:"required"`
	ClientID uuid.UUID `json:"client_id" validate:"required"`
	Message  string    `json:"message" validate:"omitempty,max=300"`
	Amount   int64     `json:"amount" validate:"required,min=0"`
	Currency string    `json:"currency" validate:"required,iso4217"`
}

// SponsorUpdateInput is the partial payload accepted when patching a sponsor.
type SponsorUpdateInput struct {
	Message  *string `json:"message" validate:"omitempty,max=300"`
	Amount   *int64  `json:"amount" validate:"omitempty,min=0"`
	Currency *string `json:"currency" validate:"omitempty,iso4217"`
}

func newSponsor(actor shared.Actor, now time.Time, in SponsorCreateInput) (PostSponsor, error) {
	return PostSponsor{
		Lifecycle: crud.NewLifecycle(actor, now),
		PostID:    in.PostID,
		ClientID:  in.ClientID,
		Message:   in.Message,
		Amount:    in.Amount,
		Currency:  in.Currency,
	}, nil
}

func sponsorPatch(in SponsorUpdateInput) crud.Filter {
	patch := crud.Filter{}
	if in.Message != nil {
		patch["message"] = *in.Message
	}
	if in.Amount != nil {
		patch["amount"] = *in.Amount
	}
	if in.Currency != nil {
		patch["currency"] = *in.Currency
	}
	return patch
}

var sponsorColumns = []string{
	"id", "created_at", "created_by_id", "updated_at", "updated_by_id",
	"deleted_at", "deleted_by_id",
	"post_id", "client_id", "message", "amount", "currency",
}

func sponsorValues(s *PostSponsor) crud.Filter {
	return crud.Filter{
		"id":            s.ID,
		"created_at":    s.CreatedAt,
		"created_by_id": s.CreatedByID,
		"updated_at":    s.UpdatedAt,
		"updated_by_id": s.UpdatedByID,
		"post_id":       s.PostID,
		"client_id":     s.ClientID,
		"message":       s.Message,
		"amount":        s.Amount,
		"currency":      s.Currency,
	}
}

// NewSponsorModel builds the Postgres persistence model for post sponsors.
func NewSponsorModel(pool *pgxpool.Pool) *crud.PgModel[PostSponsor] {
	return crud.NewPgModel(pool, crud.PgConfig[PostSponsor]{
		Table:         "post_sponsors",
		Columns:       sponsorColumns,
		SearchColumns: []string{"message"},
		Values:        sponsorValues,
	})
}
