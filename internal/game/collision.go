package game

// aabbOverlap checks two axis-aligned boxes given their centers and full
// sizes.
func aabbOverlap(pos1, size1, pos2, size2 Vec2) bool {
	halfW1, halfH1 := size1.X/2, size1.Y/2
	halfW2, halfH2 := size2.X/2, size2.Y/2
	return pos1.X-halfW1 < pos2.X+halfW2 &&
		pos1.X+halfW1 > pos2.X-halfW2 &&
		pos1.Y-halfH1 < pos2.Y+halfH2 &&
		pos1.Y+halfH1 > pos2.Y-halfH2
}

// detectProjectileImpacts runs the projectile check: broad phase against the
// reservation registry, narrow phase on interpolated positions. Confirmed
// hits despawn both the projectile and the victim and queue the events. Must
// run after motion has committed so the registry reflects this tick.
func (e *Engine) detectProjectileImpacts() {
	for _, p := range e.order {
		if p.Kind != KindProjectile || !p.InTransit() {
			continue
		}
		if _, gone := e.despawned[p.ID]; gone {
			continue
		}

		target := p.Cell.Add(p.Dir)
		occupantID, held := e.res.Occupant(target)
		if !held {
			continue
		}
		victim, ok := e.actors[occupantID]
		if !ok {
			// Occupant despawned earlier this tick and not yet swept stays
			// a ghost; no collision.
			continue
		}
		if _, gone := e.despawned[victim.ID]; gone {
			continue
		}

		// Self-fire immunity: the player cannot be hit by a projectile
		// still on the first leg of its flight.
		if victim.Kind == KindPlayer && p.Bounce != nil && p.Bounce.Used() == 0 {
			continue
		}
		if !aabbOverlap(p.Pos, p.Collider, victim.Pos, victim.Collider) {
			continue
		}

		e.emit(Event{Type: EventProjectileImpact, Actor: p.ID, Kind: KindProjectile, Target: victim.ID, Pos: victim.Pos})
		e.despawn(p)
		e.kill(victim)
	}
}

// detectAdjacency probes the 8 cells around the player for wanderers and
// confirms contact with expanded colliders. A fatal pair ends the scan; any
// second neighbour still adjacent is picked up next tick.
func (e *Engine) detectAdjacency() {
	player, ok := e.actors[e.playerID]
	if !ok {
		return
	}
	if _, gone := e.despawned[player.ID]; gone {
		return
	}

	playerBox := player.Collider.Scale(AdjacencyExpansion)
	for _, d := range NeighbourDirs {
		occupantID, held := e.res.Occupant(player.Cell.Add(d))
		if !held || occupantID == player.ID {
			continue
		}
		hostile, ok := e.actors[occupantID]
		if !ok || hostile.Kind != KindWanderer {
			continue
		}
		if _, gone := e.despawned[hostile.ID]; gone {
			continue
		}
		if !aabbOverlap(player.Pos, playerBox, hostile.Pos, hostile.Collider.Scale(AdjacencyExpansion)) {
			continue
		}

		e.kill(hostile)
		e.kill(player)
		return
	}
}
