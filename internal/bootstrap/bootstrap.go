package bootstrap

import (
	"context"

	"github.com/rs/zerolog"
)

// LoadOrFixture performs the single bootstrap attempt and falls back to the
// static fixture on any failure. No backoff, no second attempt.
func LoadOrFixture(ctx context.Context, loader Loader, log zerolog.Logger) *Dataset {
	if loader != nil {
		ds, err := loader.Load(ctx)
		if err == nil {
			log.Info().
				Int("trips", len(ds.Trips)).
				Int("loads", len(ds.Loads)).
				Int("vehicles", len(ds.Vehicles)).
				Msg("bootstrap dataset loaded")
			return ds
		}
		log.Warn().Err(err).Msg("bootstrap fetch failed, using fixture dataset")
	}
	return Fixture()
}
