package cart

import (
	"context"
	"log"

	"github.com/gracemedia/storefront/internal/settings"
)

// ApplyPreferenceChanges re-prices a visitor's cart whenever their
// preferred currency changes, keeping stored carts in step with the
// preferences store. Site-wide default changes carry an empty scope
// and name no cart, so they are skipped; a change that echoes the
// cart's current currency is already a no-op inside SetCurrency. The
// loop ends when ctx is cancelled or the channel closes.
func (s *Service) ApplyPreferenceChanges(ctx context.Context, changes <-chan settings.Change) {
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			if change.Scope == "" || change.Prefs.Currency == "" {
				continue
			}
			_, stale, err := s.SetCurrency(ctx, change.Scope, change.Prefs.Currency)
			if err != nil {
				log.Printf("currency change for %q not applied: %v", change.Scope, err)
				continue
			}
			if len(stale) > 0 {
				log.Printf("currency change for %q left %d prices stale", change.Scope, len(stale))
			}
		}
	}
}
