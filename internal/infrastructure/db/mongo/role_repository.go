package mongo

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bankabc/backoffice-api/internal/core/domain"
)

const roleCollection = "role_assignments"

// RoleRepository resolves role assignments for a user id. One document per
// (user_id, role) pair.
type RoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{coll: db.Collection(roleCollection)}
}

type roleDoc struct {
	UserID int64  `bson:"user_id"`
	Role   string `bson:"role"`
}

// RolesFor returns the user's role names sorted and de-duplicated, so the
// same principal state always yields the same list.
func (r *RoleRepository) RolesFor(ctx context.Context, userID int64) ([]string, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("%w: find roles: %v", domain.ErrDirectoryUnavailable, err)
	}
	defer cursor.Close(ctx)

	seen := make(map[string]struct{})
	roles := make([]string, 0, 4)
	for cursor.Next(ctx) {
		var doc roleDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: decode role: %v", domain.ErrDirectoryUnavailable, err)
		}
		if _, dup := seen[doc.Role]; dup {
			continue
		}
		seen[doc.Role] = struct{}{}
		roles = append(roles, doc.Role)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate roles: %v", domain.ErrDirectoryUnavailable, err)
	}

	sort.Strings(roles)
	return roles, nil
}

// Assign records a role for the user. Assigning an already-held role is a
// no-op thanks to the unique (user_id, role) index.
func (r *RoleRepository) Assign(ctx context.Context, userID int64, role string) error {
	_, err := r.coll.InsertOne(ctx, roleDoc{UserID: userID, Role: role})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("%w: assign role: %v", domain.ErrDirectoryUnavailable, err)
	}
	return nil
}
