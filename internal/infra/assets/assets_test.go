package assets

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStaticResolver(t *testing.T) {
	ctx := context.Background()

	got, err := NewStaticResolver("").ResolveImage(ctx, "bodyfat.jpg")
	require.NoError(t, err)
	require.Equal(t, "/images/bodyfat.jpg", got)

	got, err = NewStaticResolver("https://cdn.example.com/keto/").ResolveImage(ctx, "/BMI.jpg")
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/keto/BMI.jpg", got)

	got, err = NewStaticResolver("/images").ResolveImage(ctx, "")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSanitizeEndpoint(t *testing.T) {
	require.Equal(t, "acc.r2.cloudflarestorage.com", sanitizeEndpoint("https://acc.r2.cloudflarestorage.com/bucket"))
	require.Equal(t, "localhost:9000", sanitizeEndpoint(" http://localhost:9000 "))
	require.Equal(t, "", sanitizeEndpoint(""))
}

func TestR2ResolverPresignsLocally(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	resolver, err := NewR2Resolver("http://localhost:9000", "access", "secret", "funnel", "auto", "images", 15*time.Minute, logger)
	require.NoError(t, err)

	got, err := resolver.ResolveImage(context.Background(), "water.jpg")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(got, "http://localhost:9000/funnel/images/water.jpg?"), got)
	require.Contains(t, got, "X-Amz-Signature=")
	require.Contains(t, got, "X-Amz-Expires=900")
}
