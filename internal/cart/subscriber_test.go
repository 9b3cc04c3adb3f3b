package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gracemedia/storefront/internal/catalog"
	"github.com/gracemedia/storefront/internal/settings"
)

func TestApplyPreferenceChanges_RepricesCart(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	_, err := s.AddItem(ctx, "visitor-1", "b1")
	require.NoError(t, err)

	changes := make(chan settings.Change, 1)
	done := make(chan struct{})
	go func() {
		s.ApplyPreferenceChanges(ctx, changes)
		close(done)
	}()

	changes <- settings.Change{
		Scope: "visitor-1",
		Prefs: settings.Preferences{Currency: catalog.CurrencyUSD, Language: "en"},
	}
	close(changes)
	<-done

	got, err := s.GetCart(ctx, "visitor-1")
	require.NoError(t, err)
	assert.Equal(t, catalog.CurrencyUSD, got.Currency)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 3.0, got.Lines[0].Price)
}

func TestApplyPreferenceChanges_IgnoresSiteWideDefaults(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	_, err := s.AddItem(ctx, "visitor-1", "b1")
	require.NoError(t, err)

	changes := make(chan settings.Change, 1)
	done := make(chan struct{})
	go func() {
		s.ApplyPreferenceChanges(ctx, changes)
		close(done)
	}()

	// Empty scope is the site-wide default and names no cart.
	changes <- settings.Change{Prefs: settings.Preferences{Currency: catalog.CurrencyUSD}}
	close(changes)
	<-done

	got, err := s.GetCart(ctx, "visitor-1")
	require.NoError(t, err)
	assert.Equal(t, catalog.CurrencyINR, got.Currency)
}

func TestApplyPreferenceChanges_StopsOnCancel(t *testing.T) {
	s, _ := newTestService()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		s.ApplyPreferenceChanges(ctx, make(chan settings.Change))
		close(done)
	}()
	<-done
}
