package service

import (
	"context"

	"anoa.com/newsaddiction/internal/entity"
	publisherRepo "anoa.com/newsaddiction/internal/modules/publisher/repository"
	userRepo "anoa.com/newsaddiction/internal/modules/user/repository"
	"github.com/google/uuid"
)

const noPublisherName = "No Publisher"

// ResolvedPublisher is the concrete owner behind a PublisherRef.
type ResolvedPublisher struct {
	Kind      entity.PublisherKind
	Publisher *entity.Publisher
	Author    *entity.User
}

func (r ResolvedPublisher) IsSelfPublished() bool {
	return r.Kind == entity.PublisherKindUser
}

func (r ResolvedPublisher) DisplayName() string {
	switch {
	case r.Publisher != nil:
		return r.Publisher.Name
	case r.Author != nil:
		return r.Author.Name()
	default:
		return noPublisherName
	}
}

type lookupFunc func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]ResolvedPublisher, error)

// Resolver turns publisher references into their targets, one lookup per kind.
type Resolver struct {
	lookups map[entity.PublisherKind]lookupFunc
}

func NewResolver(publishers publisherRepo.PublisherRepository, users userRepo.UserRepository) *Resolver {
	return &Resolver{
		lookups: map[entity.PublisherKind]lookupFunc{
			entity.PublisherKindPublisher: func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]ResolvedPublisher, error) {
				found, err := publishers.FindByIDs(ctx, ids)
				if err != nil {
					return nil, err
				}
				out := make(map[uuid.UUID]ResolvedPublisher, len(found))
				for i := range found {
					out[found[i].ID] = ResolvedPublisher{Kind: entity.PublisherKindPublisher, Publisher: &found[i]}
				}
				return out, nil
			},
			entity.PublisherKindUser: func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]ResolvedPublisher, error) {
				found, err := users.FindByIDs(ctx, ids)
				if err != nil {
					return nil, err
				}
				out := make(map[uuid.UUID]ResolvedPublisher, len(found))
				for i := range found {
					out[found[i].ID] = ResolvedPublisher{Kind: entity.PublisherKindUser, Author: &found[i]}
				}
				return out, nil
			},
		},
	}
}

func (r *Resolver) Resolve(ctx context.Context, ref entity.PublisherRef) (ResolvedPublisher, error) {
	resolved, err := r.ResolveMany(ctx, []entity.PublisherRef{ref})
	if err != nil {
		return ResolvedPublisher{}, err
	}
	return resolved[ref], nil
}

// ResolveMany issues at most one query per kind. Unset or dangling
// references resolve to the zero value.
func (r *Resolver) ResolveMany(ctx context.Context, refs []entity.PublisherRef) (map[entity.PublisherRef]ResolvedPublisher, error) {
	byKind := make(map[entity.PublisherKind][]uuid.UUID)
	seen := make(map[entity.PublisherRef]bool)
	for _, ref := range refs {
		if !ref.IsSet() || seen[ref] {
			continue
		}
		seen[ref] = true
		byKind[ref.Kind] = append(byKind[ref.Kind], ref.ObjectID.UUID)
	}

	out := make(map[entity.PublisherRef]ResolvedPublisher, len(seen))
	for kind, ids := range byKind {
		lookup, ok := r.lookups[kind]
		if !ok {
			continue
		}
		found, err := lookup(ctx, ids)
		if err != nil {
			return nil, err
		}
		for id, resolved := range found {
			out[entity.PublisherRef{Kind: kind, ObjectID: uuid.NullUUID{UUID: id, Valid: true}}] = resolved
		}
	}
	return out, nil
}
