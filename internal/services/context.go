package services

import "context"

type contextKey string

const (
	stageContextKey    contextKey = "stage"
	categoryContextKey contextKey = "category"
	runIDContextKey    contextKey = "run_id"
	hrefContextKey     contextKey = "href"
)

// WithStage records the active pipeline stage on the context.
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, stageContextKey, stage)
}

// StageFromContext extracts the active pipeline stage, if any.
func StageFromContext(ctx context.Context) (string, bool) {
	return stringFromContext(ctx, stageContextKey)
}

// WithCategory records the content category being migrated on the context.
func WithCategory(ctx context.Context, category string) context.Context {
	return context.WithValue(ctx, categoryContextKey, category)
}

// CategoryFromContext extracts the content category, if any.
func CategoryFromContext(ctx context.Context) (string, bool) {
	return stringFromContext(ctx, categoryContextKey)
}

// WithRunID records the pipeline run identifier on the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDContextKey, runID)
}

// RunIDFromContext extracts the pipeline run identifier, if any.
func RunIDFromContext(ctx context.Context) (string, bool) {
	return stringFromContext(ctx, runIDContextKey)
}

// WithHref records the source href of the record being processed.
func WithHref(ctx context.Context, href string) context.Context {
	return context.WithValue(ctx, hrefContextKey, href)
}

// HrefFromContext extracts the source href, if any.
func HrefFromContext(ctx context.Context) (string, bool) {
	return stringFromContext(ctx, hrefContextKey)
}

func stringFromContext(ctx context.Context, key contextKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value, ok := ctx.Value(key).(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}
