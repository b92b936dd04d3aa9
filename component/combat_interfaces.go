package component

import "github.com/milk9111/fightcore/common"

// Defender is the receiving side of hit resolution.
type Defender interface {
	Alive() bool
	GetHit(attackerID int, hb HitboxData, proration common.Fixed) (CombatEvent, error)
}

// Attacker is told about hits its boxes landed.
type Attacker interface {
	ConnectedHit(evt CombatEvent, hb HitboxData)
	HasHit(hb HitboxData, target int) bool
	MarkHit(hb HitboxData, target int) bool
}

var (
	_ Defender = (*CharacterStatus)(nil)
	_ Attacker = (*CharacterStatus)(nil)
)
