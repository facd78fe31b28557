package ecs

import "github.com/rotisserie/eris"

// RunSystems invokes the systems in the given order on the caller's
// goroutine. The library imposes no scheduling of its own; ordering is
// entirely the caller's responsibility. The first failure aborts the pass.
func RunSystems(world *World, systems ...System) error {
	for i, system := range systems {
		if err := system(world); err != nil {
			world.logger.Error().Int("system", i).Err(err).Msg("system failed")
			return eris.Wrapf(err, "system %d failed", i)
		}
	}
	return nil
}
