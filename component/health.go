package component

// Alive reports whether the actor still has HP.
func (s *CharacterStatus) Alive() bool {
	return s != nil && s.HP > 0
}

// ApplyDamage subtracts amount from HP, clamping at 0. It returns the damage
// actually dealt. Reaching 0 raises KO for the next evaluation.
func (s *CharacterStatus) ApplyDamage(amount int, evt CombatEvent) int {
	if s == nil || amount <= 0 || s.HP <= 0 {
		return 0
	}
	if amount > s.HP {
		amount = s.HP
	}
	s.HP -= amount
	if s.OnDamage != nil {
		s.OnDamage(s, evt)
	}
	if s.HP == 0 {
		s.pending |= FlagKO
		s.CheckState = true
		if s.OnKO != nil {
			s.OnKO(s, evt)
		}
	}
	return amount
}

func (s *CharacterStatus) MaxHP() int {
	if s == nil || s.Archetype == nil {
		return 0
	}
	return s.Archetype.MaxHP
}

// GainMeter adds to the meter, capped at the archetype maximum.
func (s *CharacterStatus) GainMeter(amount int) {
	if s == nil || amount <= 0 {
		return
	}
	s.Meter += amount
	if limit := s.Archetype.MaxMeter; limit > 0 && s.Meter > limit {
		s.Meter = limit
	}
}
