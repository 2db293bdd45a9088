package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tecnoclick/search-backend/internal/application/services"
	"github.com/tecnoclick/search-backend/internal/domain/repositories"
)

func newRewriter(t *testing.T, corrections *memCorrections, vocabTerms []string) *services.RewriteService {
	t.Helper()
	source := &fakeCatalog{name: "cva", groups: vocabTerms}
	vocab := services.NewVocabularyService([]repositories.CatalogSource{source}, nil, 3600, nil)
	return services.NewRewriteService(corrections, vocab, 3, 70)
}

func TestRewriteService_FuzzyCorrection(t *testing.T) {
	rewriter := newRewriter(t, newMemCorrections(), []string{"teclado", "mouse"})

	rewritten, err := rewriter.Rewrite(context.Background(), []string{"teklado", "mecanico"})
	require.NoError(t, err)

	// "teklado" is 85.71% similar to "teclado" and gets rewritten;
	// "mecanico" scores below the floor against every known term and stays.
	assert.Equal(t, []string{"teclado", "mecanico"}, rewritten)
}

func TestRewriteService_KnownTermsPassThrough(t *testing.T) {
	rewriter := newRewriter(t, newMemCorrections(), []string{"teclado"})

	rewritten, err := rewriter.Rewrite(context.Background(), []string{"teclado"})
	require.NoError(t, err)
	assert.Equal(t, []string{"teclado"}, rewritten)
}

func TestRewriteService_ShortTokensNeverRewritten(t *testing.T) {
	corrections := newMemCorrections()
	// Even a trusted correction must not fire for a single-byte token.
	for i := 0; i < 3; i++ {
		require.NoError(t, corrections.ProposeOrConfirm(context.Background(), "t", "tv"))
	}

	rewriter := newRewriter(t, corrections, []string{"tv"})

	rewritten, err := rewriter.Rewrite(context.Background(), []string{"t"})
	require.NoError(t, err)
	assert.Equal(t, []string{"t"}, rewritten)
}

func TestRewriteService_TrustedCorrectionWinsWithoutVocabulary(t *testing.T) {
	corrections := newMemCorrections()
	for i := 0; i < 3; i++ {
		require.NoError(t, corrections.ProposeOrConfirm(context.Background(), "notbook", "notebook"))
	}

	// The vocabulary source is unreachable; a trusted correction must not
	// need it.
	broken := &fakeCatalog{name: "cva", err: errors.New("connection refused")}
	vocab := services.NewVocabularyService([]repositories.CatalogSource{broken}, nil, 3600, nil)
	rewriter := services.NewRewriteService(corrections, vocab, 3, 70)

	rewritten, err := rewriter.Rewrite(context.Background(), []string{"notbook"})
	require.NoError(t, err)
	assert.Equal(t, []string{"notebook"}, rewritten)
}

func TestRewriteService_UntrustedCorrectionFallsBackToFuzzy(t *testing.T) {
	corrections := newMemCorrections()
	// Two confirmations, one short of the threshold.
	require.NoError(t, corrections.ProposeOrConfirm(context.Background(), "notbook", "netbook"))
	require.NoError(t, corrections.ProposeOrConfirm(context.Background(), "notbook", "netbook"))

	rewriter := newRewriter(t, corrections, []string{"notebook"})

	rewritten, err := rewriter.Rewrite(context.Background(), []string{"notbook"})
	require.NoError(t, err)

	// The unconfirmed mapping is ignored and fuzzy matching picks the
	// vocabulary term instead.
	assert.Equal(t, []string{"notebook"}, rewritten)
}

func TestRewriteService_TieBreaksOnFirstSeenTerm(t *testing.T) {
	rewriter := newRewriter(t, newMemCorrections(), []string{"abcdex", "abcdey"})

	first, err := rewriter.Rewrite(context.Background(), []string{"abcde"})
	require.NoError(t, err)

	// Both terms score identically; the earlier one wins, every time.
	for i := 0; i < 5; i++ {
		again, err := rewriter.Rewrite(context.Background(), []string{"abcde"})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, []string{"abcdex"}, first)
}

func TestRewriteService_EmptyTokens(t *testing.T) {
	rewriter := newRewriter(t, newMemCorrections(), []string{"teclado"})

	rewritten, err := rewriter.Rewrite(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, rewritten)
}
