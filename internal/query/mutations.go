package query

import (
	"context"

	"ourtime/internal/logging"
)

// Mutation names, the keys into the invalidation table.
const (
	MutMemoryCreate  = "memory.create"
	MutMemoryUpdate  = "memory.update"
	MutMemoryDelete  = "memory.delete"
	MutMemoryLike    = "memory.like"
	MutMemoryUnlike  = "memory.unlike"
	MutCommentCreate = "comment.create"
	MutCommentUpdate = "comment.update"
	MutCommentDelete = "comment.delete"
	MutGroupCreate   = "group.create"
	MutGroupUpdate   = "group.update"
	MutGroupDelete   = "group.delete"
	MutGroupJoin     = "group.join"
	MutInviteAccept  = "invitation.accept"
	MutInviteReject  = "invitation.reject"
	MutProfileUpdate = "user.updateProfile"
)

// invalidationTable maps each mutation to the query keys it stales. The id
// argument is the entity the mutation is scoped to: the memory ID for
// memory/comment mutations, unused otherwise. Keeping this as one table is
// deliberate; nothing else in the client decides what a write invalidates.
var invalidationTable = map[string]func(id int64) []Key{
	MutMemoryCreate: func(int64) []Key { return []Key{K(ResMemories)} },
	MutMemoryUpdate: func(id int64) []Key { return []Key{K(ResMemories), KID(ResMemory, id)} },
	MutMemoryDelete: func(id int64) []Key { return []Key{K(ResMemories), KID(ResMemory, id)} },
	MutMemoryLike:   func(id int64) []Key { return []Key{KID(ResMemory, id), K(ResMemories)} },
	MutMemoryUnlike: func(id int64) []Key { return []Key{KID(ResMemory, id), K(ResMemories)} },

	MutCommentCreate: func(id int64) []Key { return []Key{KID(ResComments, id), KID(ResMemory, id)} },
	MutCommentUpdate: func(id int64) []Key { return []Key{KID(ResComments, id), KID(ResMemory, id)} },
	MutCommentDelete: func(id int64) []Key { return []Key{KID(ResComments, id), KID(ResMemory, id)} },

	MutGroupCreate: func(int64) []Key { return []Key{K(ResGroups)} },
	MutGroupUpdate: func(int64) []Key { return []Key{K(ResGroups)} },
	MutGroupDelete: func(int64) []Key { return []Key{K(ResGroups), K(ResMemories)} },
	MutGroupJoin:   func(int64) []Key { return []Key{K(ResGroups)} },

	MutInviteAccept: func(int64) []Key { return []Key{K(ResInvitations), K(ResGroups)} },
	MutInviteReject: func(int64) []Key { return []Key{K(ResInvitations)} },

	MutProfileUpdate: func(int64) []Key { return []Key{K(ResProfile)} },
}

// InvalidatedBy returns the keys the named mutation stales. Unknown names
// return nothing; the mutation still runs, it just invalidates no queries.
func InvalidatedBy(name string, id int64) []Key {
	if fn, ok := invalidationTable[name]; ok {
		return fn(id)
	}
	return nil
}

// Mutate runs a one-shot mutation. On success the dependency table decides
// which queries go stale; on failure nothing in the cache changes and the
// error is returned for the UI to surface. Mutations are never retried and
// never queued against each other — two rapid writes race at the network
// layer and the last server response wins on refetch.
func (c *Cache) Mutate(ctx context.Context, name string, id int64, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		logging.Cache("mutation %s failed: %v", name, err)
		return err
	}
	keys := InvalidatedBy(name, id)
	logging.Cache("mutation %s ok, invalidating %d keys", name, len(keys))
	c.Invalidate(keys...)
	return nil
}
