// internal/balance/selector.go

// Package balance picks which of several equivalent backend servers a player
// should land on.
package balance

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/minemaniauk/gamerooms/internal/proxy"
)

// SelectLeastLoaded returns the candidate with the lowest live player count.
// Ties go to the first-encountered candidate. The second return is false
// when no candidate currently resolves to a live server; candidates that
// fail to resolve are skipped, not fatal.
func SelectLeastLoaded(ctx context.Context, dir proxy.Directory, logger *logrus.Logger, candidates []string) (string, bool) {
	best := ""
	bestCount := 0
	found := false

	for _, name := range candidates {
		count, err := dir.PlayerCountOn(ctx, name)
		if err != nil {
			logger.WithError(err).WithField("server", name).Debug("candidate server did not resolve")
			continue
		}
		if !found || count < bestCount {
			best = name
			bestCount = count
			found = true
		}
	}
	return best, found
}
