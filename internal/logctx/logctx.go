// Package logctx decorates slog records with collection context carried on a
// context.Context.
package logctx

import (
	"context"
	"log/slog"
)

// Handler wraps another slog.Handler and appends a "coll" group when the
// record's context carries CollectionData.
type Handler struct {
	slog.Handler
}

// Wrap returns h decorated with collection context. A nil h wraps the default
// logger's handler.
func Wrap(h slog.Handler) Handler {
	if h == nil {
		h = slog.Default().Handler()
	}
	if lh, ok := h.(Handler); ok {
		return lh
	}
	return Handler{Handler: h}
}

// Handle adds the "coll" group and forwards r.
func (h Handler) Handle(ctx context.Context, r slog.Record) error {
	if cd, ok := ctx.Value(collectionDataKey{}).(*CollectionData); ok {
		attrs := []any{slog.String("name", cd.Name)}
		if cd.SnapshotID != "" {
			attrs = append(attrs, slog.String("snapshot_id", cd.SnapshotID))
		}
		if cd.Op != "" {
			attrs = append(attrs, slog.String("op", cd.Op))
		}
		r.AddAttrs(slog.Group("coll", attrs...))
	}
	return h.Handler.Handle(ctx, r)
}

// WithAttrs keeps the decoration on the derived handler.
func (h Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return Handler{Handler: h.Handler.WithAttrs(attrs)}
}

// WithGroup keeps the decoration on the derived handler.
func (h Handler) WithGroup(name string) slog.Handler {
	return Handler{Handler: h.Handler.WithGroup(name)}
}

type collectionDataKey struct{}

// CollectionData identifies the collection and operation a record belongs to.
// Empty fields are omitted from the group.
type CollectionData struct {
	Name       string
	SnapshotID string
	Op         string
}

// WithCollectionData attaches data to ctx for Handler to pick up.
func WithCollectionData(ctx context.Context, data *CollectionData) context.Context {
	return context.WithValue(ctx, collectionDataKey{}, data)
}
